package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/bookstacks/circulation/internal/platform/logger"
	"github.com/bookstacks/circulation/internal/store"
	"github.com/google/uuid"
)

// maxConflictRetries bounds how often a transition is replayed after
// losing a serialization race before ErrConflict is surfaced to the
// caller.
const maxConflictRetries = 3

// LoanService is the loan lifecycle engine. Borrow, return and renew
// are atomic transitions over the (Loan, Book) pair: each runs inside a
// single serializable transaction, evaluates eligibility against the
// snapshot it will commit, and either applies every write or none.
type LoanService interface {
	// BorrowBook lends the book to the member. On success it returns
	// the newly created open loan; the book is no longer available.
	// Returns store.ErrMemberNotFound / store.ErrBookNotFound if either
	// entity does not exist, one of the borrow rejections
	// (ErrMembershipExpired, ErrBorrowLimitExceeded, ErrHasOverdueBooks,
	// ErrBookUnavailable) if eligibility fails, or ErrConflict under
	// unresolvable contention.
	BorrowBook(ctx context.Context, memberID, bookID uuid.UUID) (*domain.Loan, error)

	// ReturnBook closes the loan: freezes the accrued fine, stamps the
	// return date, and makes the book available again. Returning is not
	// gated on eligibility — an expired membership or other holds never
	// prevent giving a book back. Returns ErrAlreadyReturned if the
	// loan is already closed.
	ReturnBook(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error)

	// RenewLoan extends the due date by one loan period and increments
	// the renewal count. The book stays lent out. Returns
	// ErrAlreadyReturned, ErrRenewalLimitReached or ErrLoanOverdue if
	// the loan cannot be renewed.
	RenewLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error)

	// CurrentFine reports what the loan costs as of today. For an open
	// loan this is a pure projection that mutates nothing; once the
	// loan is returned the frozen fine amount is authoritative.
	CurrentFine(ctx context.Context, loanID uuid.UUID) (domain.Cents, error)

	// GetLoan retrieves a loan by ID.
	GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error)

	// ListLoans retrieves every loan in the system, newest first.
	ListLoans(ctx context.Context) ([]*domain.Loan, error)

	// ListMemberLoans retrieves all loans ever taken by a member.
	ListMemberLoans(ctx context.Context, memberID uuid.UUID) ([]*domain.Loan, error)
}

// loanServiceImpl implements the LoanService interface.
type loanServiceImpl struct {
	books   store.BookStore
	members store.MemberStore
	loans   store.LoanStore
	tx      store.TxRunner
	clock   domain.Clock
	logger  *slog.Logger
}

// NewLoanService creates a new LoanService.
// It panics if any required dependency is nil; a nil logger falls back
// to slog.Default.
func NewLoanService(
	books store.BookStore,
	members store.MemberStore,
	loans store.LoanStore,
	tx store.TxRunner,
	clock domain.Clock,
	logger *slog.Logger,
) LoanService {
	if books == nil {
		panic("books store cannot be nil")
	}
	if members == nil {
		panic("members store cannot be nil")
	}
	if loans == nil {
		panic("loans store cannot be nil")
	}
	if tx == nil {
		panic("tx runner cannot be nil")
	}
	if clock == nil {
		clock = domain.NewSystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &loanServiceImpl{
		books:   books,
		members: members,
		loans:   loans,
		tx:      tx,
		clock:   clock,
		logger:  logger.With(slog.String("component", "loan_service")),
	}
}

// Ensure loanServiceImpl implements LoanService
var _ LoanService = (*loanServiceImpl)(nil)

// BorrowBook implements LoanService.BorrowBook.
func (s *loanServiceImpl) BorrowBook(
	ctx context.Context,
	memberID, bookID uuid.UUID,
) (*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var loan *domain.Loan
	err := s.withConflictRetry(ctx, log, "borrow_book", func(ctx context.Context) error {
		loan = nil
		return s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
			books := s.books.WithTx(tx)
			members := s.members.WithTx(tx)
			loans := s.loans.WithTx(tx)

			// One date basis for the whole transition.
			today := s.clock.Today()

			member, err := members.GetByID(ctx, memberID)
			if err != nil {
				return err
			}

			book, err := books.GetByID(ctx, bookID)
			if err != nil {
				return err
			}

			openLoans, err := loans.ListOpenByMember(ctx, memberID)
			if err != nil {
				return err
			}

			if err := CanBorrow(member, openLoans, book, today); err != nil {
				return err
			}

			newLoan, err := domain.NewLoan(memberID, bookID, today)
			if err != nil {
				return err
			}

			// The conditional flip is what makes two concurrent borrows
			// for the same book mutually exclusive even below
			// serializable isolation.
			if err := books.CompareAndSwapAvailability(ctx, bookID, true, false); err != nil {
				return err
			}

			if err := loans.Create(ctx, newLoan); err != nil {
				return err
			}

			loan = newLoan
			return nil
		})
	})
	if err != nil {
		return nil, s.report(log, err, "borrow_book",
			slog.String("member_id", memberID.String()),
			slog.String("book_id", bookID.String()))
	}

	log.Info("book borrowed",
		slog.String("loan_id", loan.ID.String()),
		slog.String("member_id", memberID.String()),
		slog.String("book_id", bookID.String()),
		slog.Time("due_date", loan.DueDate))
	return loan, nil
}

// ReturnBook implements LoanService.ReturnBook.
func (s *loanServiceImpl) ReturnBook(
	ctx context.Context,
	loanID uuid.UUID,
) (*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var loan *domain.Loan
	err := s.withConflictRetry(ctx, log, "return_book", func(ctx context.Context) error {
		loan = nil
		return s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
			books := s.books.WithTx(tx)
			loans := s.loans.WithTx(tx)

			today := s.clock.Today()

			current, err := loans.GetByID(ctx, loanID)
			if err != nil {
				return err
			}

			if current.IsReturned() {
				return ErrAlreadyReturned
			}

			// Freeze the fine to what had accrued at this instant; it
			// never changes again after this write.
			current.FineAmount = domain.CurrentFine(current, today)
			returnedAt := today
			current.ReturnedAt = &returnedAt

			if err := loans.Update(ctx, current); err != nil {
				return err
			}

			if err := books.CompareAndSwapAvailability(ctx, current.BookID, false, true); err != nil {
				return err
			}

			loan = current
			return nil
		})
	})
	if err != nil {
		return nil, s.report(log, err, "return_book",
			slog.String("loan_id", loanID.String()))
	}

	log.Info("book returned",
		slog.String("loan_id", loan.ID.String()),
		slog.String("book_id", loan.BookID.String()),
		slog.String("fine", loan.FineAmount.String()))
	return loan, nil
}

// RenewLoan implements LoanService.RenewLoan.
func (s *loanServiceImpl) RenewLoan(
	ctx context.Context,
	loanID uuid.UUID,
) (*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var loan *domain.Loan
	err := s.withConflictRetry(ctx, log, "renew_loan", func(ctx context.Context) error {
		loan = nil
		return s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
			loans := s.loans.WithTx(tx)

			today := s.clock.Today()

			current, err := loans.GetByID(ctx, loanID)
			if err != nil {
				return err
			}

			if err := CanRenew(current, today); err != nil {
				return err
			}

			current.DueDate = current.DueDate.AddDate(0, 0, domain.LoanDurationDays)
			current.RenewCount++

			if err := loans.Update(ctx, current); err != nil {
				return err
			}

			loan = current
			return nil
		})
	})
	if err != nil {
		return nil, s.report(log, err, "renew_loan",
			slog.String("loan_id", loanID.String()))
	}

	log.Info("loan renewed",
		slog.String("loan_id", loan.ID.String()),
		slog.Int("renew_count", loan.RenewCount),
		slog.Time("due_date", loan.DueDate))
	return loan, nil
}

// CurrentFine implements LoanService.CurrentFine.
func (s *loanServiceImpl) CurrentFine(
	ctx context.Context,
	loanID uuid.UUID,
) (domain.Cents, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return 0, s.report(log, err, "current_fine",
			slog.String("loan_id", loanID.String()))
	}

	if loan.IsReturned() {
		return loan.FineAmount, nil
	}
	return domain.CurrentFine(loan, s.clock.Today()), nil
}

// GetLoan implements LoanService.GetLoan.
func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, s.report(log, err, "get_loan",
			slog.String("loan_id", loanID.String()))
	}
	return loan, nil
}

// ListLoans implements LoanService.ListLoans.
func (s *loanServiceImpl) ListLoans(ctx context.Context) ([]*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	loans, err := s.loans.List(ctx)
	if err != nil {
		return nil, s.report(log, err, "list_loans")
	}
	return loans, nil
}

// ListMemberLoans implements LoanService.ListMemberLoans.
func (s *loanServiceImpl) ListMemberLoans(
	ctx context.Context,
	memberID uuid.UUID,
) ([]*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	loans, err := s.loans.ListByMember(ctx, memberID)
	if err != nil {
		return nil, s.report(log, err, "list_member_loans",
			slog.String("member_id", memberID.String()))
	}
	return loans, nil
}

// withConflictRetry replays fn while it keeps losing serialization
// races, up to maxConflictRetries attempts. Business rejections and
// not-found errors pass straight through: replaying them cannot change
// the answer.
func (s *loanServiceImpl) withConflictRetry(
	ctx context.Context,
	log *slog.Logger,
	operation string,
	fn func(ctx context.Context) error,
) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = fn(ctx)
		if err == nil || !store.IsConflictError(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Debug("retrying after conflict",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
	}

	return NewLoanServiceError(operation, "gave up after repeated conflicts", ErrConflict)
}

// report logs err once at the right severity and wraps unexpected
// failures. Business rejections and not-found errors are expected
// outcomes and are returned verbatim so callers can match on them.
func (s *loanServiceImpl) report(
	log *slog.Logger,
	err error,
	operation string,
	attrs ...slog.Attr,
) error {
	logArgs := make([]any, 0, len(attrs)+1)
	logArgs = append(logArgs, slog.String("operation", operation))
	for _, a := range attrs {
		logArgs = append(logArgs, a)
	}

	switch {
	case IsBusinessRejection(err):
		log.Info("operation rejected", append(logArgs, slog.String("reason", err.Error()))...)
		return err
	case store.IsNotFoundError(err):
		log.Warn("entity not found", append(logArgs, slog.String("error", err.Error()))...)
		return err
	default:
		log.Error("operation failed", append(logArgs, slog.String("error", err.Error()))...)
		var svcErr *LoanServiceError
		if errors.As(err, &svcErr) {
			return err
		}
		return NewLoanServiceError(operation, "unexpected failure", err)
	}
}
