package process

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helperEnv = "EXPOBRIDGE_HELPER_PROCESS"

// TestHelperProcess is not a real test. It is the child started by the tests
// below, driven by the steps after "--".
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) > 0 {
		args = args[1:]
	}

	for _, step := range args {
		verb, arg, _ := strings.Cut(step, ":")
		switch verb {
		case "stdout":
			fmt.Fprintln(os.Stdout, arg)
		case "stderr":
			fmt.Fprintln(os.Stderr, arg)
		case "lines":
			n, _ := strconv.Atoi(arg)
			out := bufio.NewWriter(os.Stdout)
			errOut := bufio.NewWriter(os.Stderr)
			for i := 0; i < n; i++ {
				fmt.Fprintf(out, "out line %d\n", i)
				fmt.Fprintf(errOut, "err line %d\n", i)
			}
			_ = out.Flush()
			_ = errOut.Flush()
		case "printenv":
			fmt.Fprintln(os.Stdout, os.Getenv(arg))
		case "pwd":
			wd, _ := os.Getwd()
			fmt.Fprintln(os.Stdout, wd)
		case "sleep":
			d, _ := time.ParseDuration(arg)
			time.Sleep(d)
		case "spawn":
			// a background child that keeps our stdout open after we exit
			bg := exec.Command(os.Args[0], "-test.run=TestHelperProcess", "--", "sleep:"+arg)
			bg.Stdout = os.Stdout
			_ = bg.Start()
		case "exit":
			code, _ := strconv.Atoi(arg)
			os.Exit(code)
		}
	}
	os.Exit(0)
}

func helperInvocation(t *testing.T, steps ...string) Invocation {
	t.Helper()
	exe, err := os.Executable()
	require.NoError(t, err)
	return Invocation{
		Name:       "helper",
		Executable: exe,
		Args:       append([]string{"-test.run=TestHelperProcess", "--"}, steps...),
		Env:        map[string]string{helperEnv: "1"},
	}
}

func TestRun_CapturesBothStreams(t *testing.T) {
	var console bytes.Buffer
	s := New(WithConsole(&console))

	var sink bytes.Buffer
	result, err := s.Run(context.Background(), helperInvocation(t, "stdout:hello", "stderr:oops"), &sink, false)

	require.NoError(t, err)
	assert.Equal(t, Result{ExitCode: 0, Completed: true}, result)
	assert.True(t, result.Success())
	assert.Contains(t, sink.String(), "hello\n")
	assert.Contains(t, sink.String(), "oops\n")
	assert.Empty(t, console.String(), "console only receives output with live echo")
}

func TestRun_NonZeroExitIsAResult(t *testing.T) {
	s := New(WithConsole(&bytes.Buffer{}))

	var sink bytes.Buffer
	result, err := s.Run(context.Background(), helperInvocation(t, "stderr:bad things", "exit:3"), &sink, false)

	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.True(t, result.Completed)
	assert.False(t, result.Success())
	assert.Contains(t, sink.String(), "bad things")
}

func TestRun_LargeOutputDoesNotDeadlock(t *testing.T) {
	const lines = 20000
	s := New(WithConsole(&bytes.Buffer{}))

	var sink bytes.Buffer
	done := make(chan struct{})
	var result Result
	var err error
	go func() {
		defer close(done)
		result, err = s.Run(context.Background(), helperInvocation(t, fmt.Sprintf("lines:%d", lines)), &sink, false)
	}()

	select {
	case <-done:
	case <-time.After(60 * time.Second):
		t.Fatal("run did not finish")
	}

	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, 2*lines, strings.Count(sink.String(), "\n"))
	assert.Contains(t, sink.String(), fmt.Sprintf("out line %d\n", lines-1))
	assert.Contains(t, sink.String(), fmt.Sprintf("err line %d\n", lines-1))
}

func TestRun_LiveEcho(t *testing.T) {
	var console bytes.Buffer
	s := New(WithConsole(&console))

	var sink bytes.Buffer
	_, err := s.Run(context.Background(), helperInvocation(t, "stdout:visible"), &sink, true)

	require.NoError(t, err)
	assert.Contains(t, console.String(), "visible")
	assert.Contains(t, sink.String(), "visible")
}

func TestRun_LaunchFailure(t *testing.T) {
	s := New(WithConsole(&bytes.Buffer{}))
	inv := Invocation{
		Executable: filepath.Join(t.TempDir(), "does-not-exist"),
	}

	result, err := s.Run(context.Background(), inv, &bytes.Buffer{}, false)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProcessLaunch))
	assert.False(t, result.Completed)
	assert.Equal(t, -1, result.ExitCode)
}

func TestRun_EmptyExecutable(t *testing.T) {
	s := New()

	_, err := s.Run(context.Background(), Invocation{}, &bytes.Buffer{}, false)

	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRun_EnvironmentAndWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	s := New(WithConsole(&bytes.Buffer{}))

	inv := helperInvocation(t, "printenv:EXPOBRIDGE_TEST_VALUE", "printenv:PATH", "pwd")
	inv.Env["EXPOBRIDGE_TEST_VALUE"] = "forty-two"
	inv.Dir = dir

	var sink bytes.Buffer
	_, err := s.Run(context.Background(), inv, &sink, false)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(sink.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "forty-two", strings.TrimSpace(lines[0]))

	exeDir := filepath.Dir(inv.Executable)
	firstPathEntry := strings.Split(strings.TrimSpace(lines[1]), platform.Current().PathListSeparator())[0]
	assert.Equal(t, exeDir, firstPathEntry)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(strings.TrimSpace(lines[2]))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRun_Cancellation(t *testing.T) {
	s := New(WithConsole(&bytes.Buffer{}))
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := s.Run(ctx, helperInvocation(t, "stdout:started", "sleep:30s"), &bytes.Buffer{}, false)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProcessCancelled))
	assert.False(t, result.Completed)
	assert.Less(t, time.Since(start), 20*time.Second)
}

func TestRun_DrainTimeoutMarksTruncation(t *testing.T) {
	s := New(WithConsole(&bytes.Buffer{}), WithDrainTimeout(200*time.Millisecond))

	start := time.Now()
	var sink bytes.Buffer
	result, err := s.Run(context.Background(), helperInvocation(t, "stdout:before", "spawn:5s"), &sink, false)

	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Less(t, time.Since(start), 4*time.Second)
	assert.Contains(t, sink.String(), "before\n")
	assert.Contains(t, sink.String(), "[output truncated: still open 200ms after process exit]")
}

func TestRun_NoTruncationMarkerWhenDrained(t *testing.T) {
	s := New(WithConsole(&bytes.Buffer{}))

	var sink bytes.Buffer
	_, err := s.Run(context.Background(), helperInvocation(t, "stdout:done"), &sink, false)

	require.NoError(t, err)
	assert.NotContains(t, sink.String(), "output truncated")
}

func TestExecute_Success(t *testing.T) {
	s := New(WithConsole(&bytes.Buffer{}))

	err := s.Execute(context.Background(), helperInvocation(t, "stdout:fine"))

	assert.NoError(t, err)
}

func TestExecute_FailureCarriesTail(t *testing.T) {
	s := New(WithConsole(&bytes.Buffer{}), WithDiagnosticCapacity(64))

	err := s.Execute(context.Background(), helperInvocation(t, "lines:500", "sleep:300ms", "stderr:final words", "exit:7"))

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProcessNonZeroExit))
	assert.Contains(t, err.Error(), "helper failed (exit code = 7)")

	details := errors.GetErrorDetails(err)
	assert.Equal(t, 7, details["exit_code"])
	output, ok := details["output"].(string)
	require.True(t, ok)
	assert.LessOrEqual(t, len(output), 64)
	assert.Contains(t, output, "final words")
}

func TestCheck(t *testing.T) {
	inv := Invocation{Name: "npm install"}

	assert.NoError(t, Check(inv, Result{ExitCode: 0, Completed: true}, nil))

	err := Check(inv, Result{ExitCode: -1}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProcessNonZeroExit))
	assert.Contains(t, err.Error(), "npm install failed (exit code = -1)")
}

func TestCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		family   platform.Family
		inv      Invocation
		wantName string
		wantArgs []string
	}{
		{
			name:     "unix runs directly",
			family:   platform.Linux,
			inv:      Invocation{Executable: "npm", Args: []string{"install"}},
			wantName: "npm",
			wantArgs: []string{"install"},
		},
		{
			name:     "windows script goes through cmd",
			family:   platform.Windows,
			inv:      Invocation{Executable: `C:\node\npm.cmd`, Args: []string{"install"}},
			wantName: "cmd.exe",
			wantArgs: []string{"/c", `C:\node\npm.cmd`, "install"},
		},
		{
			name:     "windows bare name goes through cmd",
			family:   platform.Windows,
			inv:      Invocation{Executable: "mklink"},
			wantName: "cmd.exe",
			wantArgs: []string{"/c", "mklink"},
		},
		{
			name:     "windows exe runs directly",
			family:   platform.Windows,
			inv:      Invocation{Executable: `C:\node\NODE.EXE`, Args: []string{"-v"}},
			wantName: `C:\node\NODE.EXE`,
			wantArgs: []string{"-v"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithFamily(tt.family))
			name, args := s.CommandLine(tt.inv)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
