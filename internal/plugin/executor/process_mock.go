package executor

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// MockProcessRunner is a mock implementation of ProcessRunner for testing.
type MockProcessRunner struct {
	// RunFunc allows tests to provide custom behavior
	RunFunc func(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)

	// Delay simulates slow process execution
	Delay time.Duration

	// ShouldTimeout if true, will block until context is cancelled
	ShouldTimeout bool

	mu        sync.Mutex
	callCount int
	lastPath  string
	lastStdin []byte
}

// Run executes the mock behavior.
func (m *MockProcessRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	var in []byte
	if stdin != nil {
		in, _ = io.ReadAll(stdin)
	}

	m.mu.Lock()
	m.callCount++
	m.lastPath = path
	m.lastStdin = in
	m.mu.Unlock()

	if m.ShouldTimeout {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}

	if m.RunFunc != nil {
		return m.RunFunc(ctx, path, args, nil)
	}

	return []byte("[]"), nil, nil
}

// CallCount returns how many times Run was called.
func (m *MockProcessRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastStdin returns the stdin consumed by the most recent Run.
func (m *MockProcessRunner) LastStdin() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastStdin
}

// LastPath returns the path passed to the most recent Run.
func (m *MockProcessRunner) LastPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPath
}

// NewTimeoutMockProcessRunner creates a mock that simulates a timeout.
func NewTimeoutMockProcessRunner() *MockProcessRunner {
	return &MockProcessRunner{
		ShouldTimeout: true,
	}
}

// NewErrorMockProcessRunner creates a mock that returns an error.
func NewErrorMockProcessRunner(errMsg string) *MockProcessRunner {
	return &MockProcessRunner{
		RunFunc: func(context.Context, string, []string, io.Reader) ([]byte, []byte, error) {
			return nil, []byte(errMsg), errors.New(errMsg)
		},
	}
}

// NewSuccessMockProcessRunner creates a mock that returns the given stdout.
func NewSuccessMockProcessRunner(stdout []byte) *MockProcessRunner {
	return &MockProcessRunner{
		RunFunc: func(context.Context, string, []string, io.Reader) ([]byte, []byte, error) {
			return stdout, nil, nil
		},
	}
}
