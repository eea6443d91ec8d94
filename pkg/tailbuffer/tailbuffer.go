// Package tailbuffer keeps the most recent output of a child process within a
// fixed byte capacity, evicting whole lines so the retained tail never starts
// in the middle of a line.
package tailbuffer

import (
	"bytes"
	"sync"
)

// DefaultCapacity matches the tail kept for failed external commands.
const DefaultCapacity = 8192

// Buffer is a fixed-capacity, line-aligned tail of everything written to it.
// It is safe for concurrent use by multiple writers.
type Buffer struct {
	mu         sync.Mutex
	data       []byte
	capacity   int
	terminator byte

	// skipping is set when a line longer than the capacity was evicted before
	// its terminator arrived; bytes are dropped until the line ends.
	skipping bool
}

// Option configures a Buffer
type Option func(*Buffer)

// WithTerminator sets the byte that ends a line. The default '\n' also covers
// CRLF output.
func WithTerminator(b byte) Option {
	return func(buf *Buffer) {
		buf.terminator = b
	}
}

// New creates a Buffer holding at most capacity bytes. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int, opts ...Option) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	b := &Buffer{
		data:       make([]byte, 0, capacity),
		capacity:   capacity,
		terminator: '\n',
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Write appends p, evicting the oldest complete lines when the capacity would
// be exceeded. It always reports len(p) bytes written.
func (b *Buffer) Write(p []byte) (int, error) {
	n := len(p)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.skipping {
		i := bytes.IndexByte(p, b.terminator)
		if i < 0 {
			return n, nil
		}
		p = p[i+1:]
		b.skipping = false
	}

	total := len(b.data) + len(p)
	if total <= b.capacity {
		b.data = append(b.data, p...)
		return n, nil
	}

	// The retained tail must start right after a terminator located at or
	// beyond the first byte that has to go.
	cut, ok := b.boundaryFrom(total-b.capacity-1, p)
	if !ok {
		b.data = b.data[:0]
		b.skipping = true
		return n, nil
	}

	if cut < len(b.data) {
		kept := copy(b.data, b.data[cut:])
		b.data = append(b.data[:kept], p...)
	} else {
		b.data = append(b.data[:0], p[cut-len(b.data):]...)
	}
	return n, nil
}

// boundaryFrom finds the first terminator at or after offset in the virtual
// concatenation of the current data and p, returning the index just past it.
func (b *Buffer) boundaryFrom(offset int, p []byte) (int, bool) {
	if offset < len(b.data) {
		if i := bytes.IndexByte(b.data[offset:], b.terminator); i >= 0 {
			return offset + i + 1, true
		}
		offset = len(b.data)
	}
	rel := offset - len(b.data)
	if i := bytes.IndexByte(p[rel:], b.terminator); i >= 0 {
		return len(b.data) + rel + i + 1, true
	}
	return 0, false
}

// Snapshot returns a copy of the retained bytes in write order.
func (b *Buffer) Snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// String returns the retained bytes as text.
func (b *Buffer) String() string {
	return string(b.Snapshot())
}

// Len returns the number of retained bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Cap returns the capacity in bytes.
func (b *Buffer) Cap() int {
	return b.capacity
}
