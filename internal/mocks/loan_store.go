package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/bookstacks/circulation/internal/store"
	"github.com/google/uuid"
)

// MockLoanStore implements store.LoanStore for testing.
type MockLoanStore struct {
	mu    sync.Mutex
	Loans map[uuid.UUID]*domain.Loan

	// Function fields for customizable behavior
	CreateFn           func(ctx context.Context, loan *domain.Loan) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	UpdateFn           func(ctx context.Context, loan *domain.Loan) error
	ListFn             func(ctx context.Context) ([]*domain.Loan, error)
	ListByMemberFn     func(ctx context.Context, memberID uuid.UUID) ([]*domain.Loan, error)
	ListOpenByMemberFn func(ctx context.Context, memberID uuid.UUID) ([]*domain.Loan, error)
	GetOpenByBookFn    func(ctx context.Context, bookID uuid.UUID) (*domain.Loan, error)
}

// NewMockLoanStore creates a new mock store with initialized defaults.
func NewMockLoanStore() *MockLoanStore {
	return &MockLoanStore{
		Loans: make(map[uuid.UUID]*domain.Loan),
	}
}

// Ensure MockLoanStore implements store.LoanStore
var _ store.LoanStore = (*MockLoanStore)(nil)

// Seed stores a copy of the loan, bypassing validation and the
// one-open-loan-per-book check.
func (m *MockLoanStore) Seed(loan *domain.Loan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loans[loan.ID] = copyLoan(loan)
}

// Create implements the LoanStore interface.
// It enforces the partial unique index from the schema: at most one
// open loan per book.
func (m *MockLoanStore) Create(ctx context.Context, loan *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, loan)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.Loans {
		if existing.BookID == loan.BookID && !existing.IsReturned() {
			return fmt.Errorf("%w: book already on loan", store.ErrConflict)
		}
	}

	m.Loans[loan.ID] = copyLoan(loan)
	return nil
}

// GetByID implements the LoanStore interface.
func (m *MockLoanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loan, ok := m.Loans[id]
	if !ok {
		return nil, store.ErrLoanNotFound
	}
	return copyLoan(loan), nil
}

// Update implements the LoanStore interface.
func (m *MockLoanStore) Update(ctx context.Context, loan *domain.Loan) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, loan)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Loans[loan.ID]; !ok {
		return store.ErrLoanNotFound
	}
	m.Loans[loan.ID] = copyLoan(loan)
	return nil
}

// List implements the LoanStore interface.
func (m *MockLoanStore) List(ctx context.Context) ([]*domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collect(func(*domain.Loan) bool { return true }), nil
}

// ListByMember implements the LoanStore interface.
func (m *MockLoanStore) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Loan, error) {
	if m.ListByMemberFn != nil {
		return m.ListByMemberFn(ctx, memberID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collect(func(l *domain.Loan) bool { return l.MemberID == memberID }), nil
}

// ListOpenByMember implements the LoanStore interface.
func (m *MockLoanStore) ListOpenByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Loan, error) {
	if m.ListOpenByMemberFn != nil {
		return m.ListOpenByMemberFn(ctx, memberID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collect(func(l *domain.Loan) bool {
		return l.MemberID == memberID && !l.IsReturned()
	}), nil
}

// GetOpenByBook implements the LoanStore interface.
func (m *MockLoanStore) GetOpenByBook(ctx context.Context, bookID uuid.UUID) (*domain.Loan, error) {
	if m.GetOpenByBookFn != nil {
		return m.GetOpenByBookFn(ctx, bookID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, loan := range m.Loans {
		if loan.BookID == bookID && !loan.IsReturned() {
			return copyLoan(loan), nil
		}
	}
	return nil, store.ErrLoanNotFound
}

// WithTx implements the LoanStore interface. The mock has no
// transactions; it returns itself.
func (m *MockLoanStore) WithTx(tx *sql.Tx) store.LoanStore {
	return m
}

// OpenCount returns the number of open loans held for the book.
func (m *MockLoanStore) OpenCount(bookID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, loan := range m.Loans {
		if loan.BookID == bookID && !loan.IsReturned() {
			n++
		}
	}
	return n
}

// collect must be called with the mutex held.
func (m *MockLoanStore) collect(keep func(*domain.Loan) bool) []*domain.Loan {
	var loans []*domain.Loan
	for _, loan := range m.Loans {
		if keep(loan) {
			loans = append(loans, copyLoan(loan))
		}
	}
	sort.Slice(loans, func(i, j int) bool {
		if !loans[i].BorrowDate.Equal(loans[j].BorrowDate) {
			return loans[i].BorrowDate.After(loans[j].BorrowDate)
		}
		return loans[i].ID.String() < loans[j].ID.String()
	})
	return loans
}

func copyLoan(loan *domain.Loan) *domain.Loan {
	c := *loan
	if loan.ReturnedAt != nil {
		t := *loan.ReturnedAt
		c.ReturnedAt = &t
	}
	return &c
}
