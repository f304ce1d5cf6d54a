package store

import (
	"context"
	"database/sql"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/google/uuid"
)

// LoanStore defines the interface for loan data persistence.
//
// Loans reference their member and book by ID only; the engine resolves
// a member's or book's loans through the ListX queries rather than
// through embedded collections on those entities.
type LoanStore interface {
	// Create saves a new loan to the store.
	// Returns validation errors from the domain Loan if data is invalid.
	// Returns ErrConflict if an open loan already exists for the book
	// (the schema enforces at most one).
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its unique ID.
	// Returns ErrLoanNotFound if the loan does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// Update replaces all mutable fields of an existing loan (due date,
	// return date, renew count, fine amount). Used by the return and
	// renew transitions.
	// Returns ErrLoanNotFound if the loan does not exist.
	Update(ctx context.Context, loan *domain.Loan) error

	// List retrieves all loans ordered by borrow date, newest first.
	List(ctx context.Context) ([]*domain.Loan, error)

	// ListByMember retrieves all loans ever taken by a member, newest
	// first.
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Loan, error)

	// ListOpenByMember retrieves the member's loans that have not been
	// returned. Eligibility reads the open-loan count and overdue state
	// from this result.
	ListOpenByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Loan, error)

	// GetOpenByBook retrieves the single open loan for a book, if any.
	// Returns ErrLoanNotFound if the book has no open loan.
	GetOpenByBook(ctx context.Context, bookID uuid.UUID) (*domain.Loan, error)

	// WithTx returns a new LoanStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) LoanStore
}
