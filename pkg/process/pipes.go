package process

import (
	"os"
	"sync"
)

// pipes holds both ends of the stdout and stderr pipes of one child. Each end
// is closed exactly once whatever path the run takes.
type pipes struct {
	stdoutR, stdoutW *os.File
	stderrR, stderrW *os.File

	writersOnce sync.Once
	readersOnce sync.Once
}

func openPipes() (*pipes, error) {
	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		_ = outR.Close()
		_ = outW.Close()
		return nil, err
	}
	return &pipes{stdoutR: outR, stdoutW: outW, stderrR: errR, stderrW: errW}, nil
}

func (p *pipes) closeWriters() {
	p.writersOnce.Do(func() {
		_ = p.stdoutW.Close()
		_ = p.stderrW.Close()
	})
}

func (p *pipes) closeReaders() {
	p.readersOnce.Do(func() {
		_ = p.stdoutR.Close()
		_ = p.stderrR.Close()
	})
}

func (p *pipes) close() {
	p.closeWriters()
	p.closeReaders()
}
