package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/bookstacks/circulation/internal/store"
	"github.com/google/uuid"
)

// PostgresLoanStore implements the store.LoanStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLoanStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLoanStore creates a new PostgreSQL implementation of the
// LoanStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLoanStore(db store.DBTX, logger *slog.Logger) *PostgresLoanStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLoanStore{
		db:     db,
		logger: logger.With(slog.String("component", "loan_store")),
	}
}

// Ensure PostgresLoanStore implements store.LoanStore interface
var _ store.LoanStore = (*PostgresLoanStore)(nil)

// WithTx implements store.LoanStore.WithTx
func (s *PostgresLoanStore) WithTx(tx *sql.Tx) store.LoanStore {
	return &PostgresLoanStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.LoanStore.Create
func (s *PostgresLoanStore) Create(ctx context.Context, loan *domain.Loan) error {
	if err := loan.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO loans (id, member_id, book_id, borrow_date, due_date,
		                   return_date, renew_count, fine_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		loan.ID,
		loan.MemberID,
		loan.BookID,
		loan.BorrowDate,
		loan.DueDate,
		loan.ReturnedAt,
		loan.RenewCount,
		int64(loan.FineAmount),
	)
	if err != nil {
		// The partial unique index on open loans backs the
		// one-open-loan-per-book invariant; a violation means a
		// concurrent borrow slipped in first.
		if IsUniqueViolation(err, "loans_open_book_idx") {
			return fmt.Errorf("%w: book already on loan: %v", store.ErrConflict, err)
		}
		return MapError(err)
	}

	return nil
}

// GetByID implements store.LoanStore.GetByID
func (s *PostgresLoanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := selectLoan + ` WHERE id = $1`

	loan, err := scanLoan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrLoanNotFound, err)
		}
		return nil, MapError(err)
	}

	return loan, nil
}

// Update implements store.LoanStore.Update
// It replaces every mutable loan field; the return and renew
// transitions persist their whole post-transition state through it.
func (s *PostgresLoanStore) Update(ctx context.Context, loan *domain.Loan) error {
	if err := loan.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE loans
		SET due_date = $2, return_date = $3, renew_count = $4, fine_cents = $5
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		loan.ID,
		loan.DueDate,
		loan.ReturnedAt,
		loan.RenewCount,
		int64(loan.FineAmount),
	)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "loan"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrLoanNotFound, err)
	}

	return nil
}

// List implements store.LoanStore.List
func (s *PostgresLoanStore) List(ctx context.Context) ([]*domain.Loan, error) {
	query := selectLoan + ` ORDER BY borrow_date DESC, id`
	return s.queryLoans(ctx, query)
}

// ListByMember implements store.LoanStore.ListByMember
func (s *PostgresLoanStore) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Loan, error) {
	query := selectLoan + ` WHERE member_id = $1 ORDER BY borrow_date DESC, id`
	return s.queryLoans(ctx, query, memberID)
}

// ListOpenByMember implements store.LoanStore.ListOpenByMember
func (s *PostgresLoanStore) ListOpenByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Loan, error) {
	query := selectLoan + ` WHERE member_id = $1 AND return_date IS NULL ORDER BY due_date, id`
	return s.queryLoans(ctx, query, memberID)
}

// GetOpenByBook implements store.LoanStore.GetOpenByBook
func (s *PostgresLoanStore) GetOpenByBook(ctx context.Context, bookID uuid.UUID) (*domain.Loan, error) {
	query := selectLoan + ` WHERE book_id = $1 AND return_date IS NULL`

	loan, err := scanLoan(s.db.QueryRowContext(ctx, query, bookID))
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrLoanNotFound, err)
		}
		return nil, MapError(err)
	}

	return loan, nil
}

func (s *PostgresLoanStore) queryLoans(ctx context.Context, query string, args ...any) ([]*domain.Loan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, MapError(err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return loans, nil
}

const selectLoan = `
	SELECT id, member_id, book_id, borrow_date, due_date,
	       return_date, renew_count, fine_cents
	FROM loans`

func scanLoan(row rowScanner) (*domain.Loan, error) {
	var (
		loan       domain.Loan
		returnedAt sql.NullTime
		fineCents  int64
	)
	err := row.Scan(
		&loan.ID,
		&loan.MemberID,
		&loan.BookID,
		&loan.BorrowDate,
		&loan.DueDate,
		&returnedAt,
		&loan.RenewCount,
		&fineCents,
	)
	if err != nil {
		return nil, err
	}

	loan.BorrowDate = domain.Midnight(loan.BorrowDate)
	loan.DueDate = domain.Midnight(loan.DueDate)
	if returnedAt.Valid {
		t := domain.Midnight(returnedAt.Time)
		loan.ReturnedAt = &t
	}
	loan.FineAmount = domain.Cents(fineCents)

	return &loan, nil
}
