package testutil

import (
	"context"
	"sync"

	"github.com/arthur-debert/expobridge/pkg/process"
	"github.com/stretchr/testify/mock"
)

// FakeRunner records invocations instead of starting processes. OnExecute,
// when set, runs for each invocation and its error is returned.
type FakeRunner struct {
	mu          sync.Mutex
	invocations []process.Invocation

	OnExecute func(inv process.Invocation) error
}

var _ process.Runner = (*FakeRunner)(nil)

// Execute implements process.Runner
func (f *FakeRunner) Execute(ctx context.Context, inv process.Invocation) error {
	f.mu.Lock()
	f.invocations = append(f.invocations, inv)
	hook := f.OnExecute
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if hook != nil {
		return hook(inv)
	}
	return nil
}

// Invocations returns what was executed, in order.
func (f *FakeRunner) Invocations() []process.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]process.Invocation(nil), f.invocations...)
}

// MockRunner is a testify mock of process.Runner for tests that set
// expectations on specific invocations.
type MockRunner struct {
	mock.Mock
}

var _ process.Runner = (*MockRunner)(nil)

// Execute implements process.Runner
func (m *MockRunner) Execute(ctx context.Context, inv process.Invocation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}
