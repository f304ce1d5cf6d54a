package mocks

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	"github.com/bookstacks/circulation/internal/store"
)

// MockTxRunner implements store.TxRunner for testing. It invokes the
// function with a nil transaction, holding a global mutex for the
// duration: concurrent transactions serialize one after another, which
// is exactly the observable behavior the real TxManager buys with
// serializable isolation. A transition that races another therefore
// sees the winner's committed state, not a torn intermediate.
type MockTxRunner struct {
	// RunInTxFn overrides the default behavior when set.
	RunInTxFn func(ctx context.Context, fn store.TxFn) error

	mu    sync.Mutex
	calls atomic.Int64
}

// NewMockTxRunner creates a new mock transaction runner.
func NewMockTxRunner() *MockTxRunner {
	return &MockTxRunner{}
}

// Ensure MockTxRunner implements store.TxRunner
var _ store.TxRunner = (*MockTxRunner)(nil)

// RunInTx implements the TxRunner interface.
func (m *MockTxRunner) RunInTx(ctx context.Context, fn store.TxFn) error {
	m.calls.Add(1)
	if m.RunInTxFn != nil {
		return m.RunInTxFn(ctx, fn)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, (*sql.Tx)(nil))
}

// Calls reports how many transactions were started, including replays
// after conflicts.
func (m *MockTxRunner) Calls() int64 {
	return m.calls.Load()
}
