package process

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/logging"
	"github.com/arthur-debert/expobridge/pkg/platform"
	"github.com/arthur-debert/expobridge/pkg/tailbuffer"
	"github.com/rs/zerolog"
)

// DefaultDrainTimeout bounds how long output is still read after the child
// exited. Grandchildren that inherited the pipes can keep them open forever.
const DefaultDrainTimeout = 10 * time.Second

// truncatedMarker is written to the sink when output was cut off at the drain
// timeout, so the diagnostic tail shows that bytes may be missing.
const truncatedMarker = "\n[output truncated: still open %s after process exit]\n"

// Runner runs invocations. Supervisor is the production implementation; the
// link stage depends on this interface so tests can fake it.
type Runner interface {
	Execute(ctx context.Context, inv Invocation) error
}

// Supervisor launches external commands and reports their outcome.
type Supervisor struct {
	family       platform.Family
	console      io.Writer
	capacity     int
	liveEcho     bool
	drainTimeout time.Duration
	environ      func() []string
	logger       zerolog.Logger
}

// Option configures a Supervisor
type Option func(*Supervisor)

// WithFamily overrides the detected platform family.
func WithFamily(f platform.Family) Option {
	return func(s *Supervisor) { s.family = f }
}

// WithConsole sets where live output is echoed. Defaults to os.Stdout.
func WithConsole(w io.Writer) Option {
	return func(s *Supervisor) { s.console = w }
}

// WithDiagnosticCapacity sets the tail size kept by Execute.
func WithDiagnosticCapacity(n int) Option {
	return func(s *Supervisor) { s.capacity = n }
}

// WithLiveEcho makes Execute echo child output to the console.
func WithLiveEcho(enabled bool) Option {
	return func(s *Supervisor) { s.liveEcho = enabled }
}

// WithDrainTimeout sets how long to keep reading output after the child exits.
func WithDrainTimeout(d time.Duration) Option {
	return func(s *Supervisor) { s.drainTimeout = d }
}

// WithEnviron replaces the inherited environment source.
func WithEnviron(fn func() []string) Option {
	return func(s *Supervisor) { s.environ = fn }
}

// New creates a Supervisor for the current platform.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{
		family:       platform.Current(),
		console:      os.Stdout,
		capacity:     tailbuffer.DefaultCapacity,
		drainTimeout: DefaultDrainTimeout,
		environ:      os.Environ,
		logger:       logging.GetLogger("process"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Family returns the platform family the supervisor shapes commands for.
func (s *Supervisor) Family() platform.Family {
	return s.family
}

// CommandLine returns the program and arguments actually started for inv.
// On Windows anything that is not a native .exe goes through cmd.exe.
func (s *Supervisor) CommandLine(inv Invocation) (string, []string) {
	if s.family.IsWindows() && !strings.HasSuffix(strings.ToLower(inv.Executable), ".exe") {
		args := append([]string{"/c", inv.Executable}, inv.Args...)
		return "cmd.exe", args
	}
	return inv.Executable, append([]string(nil), inv.Args...)
}

// Run starts inv, copies everything it writes on stdout and stderr to sink
// (and to the console when liveEcho is set) and waits for it to exit.
//
// A non-zero exit is not an error here: it is reported through Result. The
// error is reserved for failures to start or wait for the child and for
// cancellation through ctx.
func (s *Supervisor) Run(ctx context.Context, inv Invocation, sink io.Writer, liveEcho bool) (Result, error) {
	failed := Result{ExitCode: -1}
	if inv.Executable == "" {
		return failed, errors.New(errors.ErrInvalidInput, "no command specified")
	}

	name, args := s.CommandLine(inv)
	logging.LogCommand(s.logger, name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = inv.Dir
	cmd.Env = BuildEnv(s.environ(), inv.Env, inv.Executable, s.family)

	p, err := openPipes()
	if err != nil {
		return failed, errors.Wrapf(err, errors.ErrProcessLaunch, "%s: failed to create output pipes", inv.DisplayName())
	}
	defer p.close()

	cmd.Stdout = p.stdoutW
	cmd.Stderr = p.stderrW

	if err := cmd.Start(); err != nil {
		return failed, errors.Wrapf(err, errors.ErrProcessLaunch, "%s: failed to start %s", inv.DisplayName(), name).
			WithDetail("executable", inv.Executable)
	}
	// the child owns its copies of the write ends now
	p.closeWriters()

	var dst io.Writer = sink
	if liveEcho && s.console != nil {
		dst = io.MultiWriter(sink, s.console)
	}
	// both forwarders share dst
	dst = &lockedWriter{w: dst}

	var wg sync.WaitGroup
	wg.Add(2)
	go s.forward(&wg, "stdout", p.stdoutR, dst)
	go s.forward(&wg, "stderr", p.stderrR, dst)

	waitErr := cmd.Wait()
	if !s.awaitDrain(&wg, p, inv) {
		_, _ = fmt.Fprintf(dst, truncatedMarker, s.drainTimeout)
	}

	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
		return Result{ExitCode: 0, Completed: true}, nil
	case ctx.Err() != nil:
		code := -1
		if stderrors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		}
		return Result{ExitCode: code}, errors.Wrapf(ctx.Err(), errors.ErrProcessCancelled, "%s was cancelled", inv.DisplayName())
	case stderrors.As(waitErr, &exitErr):
		code := exitErr.ExitCode()
		return Result{ExitCode: code, Completed: code >= 0}, nil
	default:
		if killErr := cmd.Process.Kill(); killErr != nil && !stderrors.Is(killErr, os.ErrProcessDone) {
			s.logger.Warn().Err(killErr).Str("command", inv.DisplayName()).Msg("Failed to kill child process")
		}
		return failed, errors.Wrapf(waitErr, errors.ErrProcessLaunch, "%s: waiting for process failed", inv.DisplayName())
	}
}

// Execute runs inv keeping a bounded diagnostic tail and converts any failure
// into an error naming the command, its exit code and the captured tail.
func (s *Supervisor) Execute(ctx context.Context, inv Invocation) error {
	tail := tailbuffer.New(s.capacity)

	result, err := s.Run(ctx, inv, tail, s.liveEcho)
	if err != nil {
		var expoErr *errors.ExpoError
		if output := tail.String(); output != "" && stderrors.As(err, &expoErr) {
			s.logger.Error().Str("command", inv.DisplayName()).Msg(output)
			expoErr.WithDetail("output", output)
		}
		return err
	}
	if err := Check(inv, result, tail); err != nil {
		s.logger.Error().
			Str("command", inv.DisplayName()).
			Int("exit_code", result.ExitCode).
			Msg(tail.String())
		return err
	}
	return nil
}

// Check turns an unsuccessful result into a PROCESS_NON_ZERO_EXIT error that
// carries the snapshot of tail.
func Check(inv Invocation, result Result, tail *tailbuffer.Buffer) error {
	if result.Success() {
		return nil
	}
	var output string
	if tail != nil {
		output = tail.String()
	}
	return errors.Newf(errors.ErrProcessNonZeroExit, "%s failed (exit code = %d)\n%s",
		inv.DisplayName(), result.ExitCode, output).
		WithDetail("command", inv.DisplayName()).
		WithDetail("exit_code", result.ExitCode).
		WithDetail("output", output)
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (s *Supervisor) forward(wg *sync.WaitGroup, stream string, src io.Reader, dst io.Writer) {
	defer wg.Done()
	if _, err := io.Copy(dst, src); err != nil && !stderrors.Is(err, os.ErrClosed) {
		s.logger.Debug().Err(err).Str("stream", stream).Msg("Output forwarding stopped")
	}
}

// awaitDrain waits for both forwarders. If output is still open after the
// drain timeout the read ends are closed to release them and false is
// returned.
func (s *Supervisor) awaitDrain(wg *sync.WaitGroup, p *pipes, inv Invocation) bool {
	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()

	timer := time.NewTimer(s.drainTimeout)
	defer timer.Stop()

	select {
	case <-drained:
		return true
	case <-timer.C:
		s.logger.Warn().
			Str("command", inv.DisplayName()).
			Dur("timeout", s.drainTimeout).
			Msg("Output still open after process exit, closing")
		p.closeReaders()
		<-drained
		return false
	}
}
