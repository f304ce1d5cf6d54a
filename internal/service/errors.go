// Package service implements the loan lifecycle engine and the
// catalog/member services around it.
package service

import (
	"errors"
	"fmt"
)

// Business rejections. Each one reports a circulation rule that the
// requested transition would break. They are terminal for the current
// call and are surfaced to the caller verbatim — retrying without a
// state change cannot succeed, so the engine never retries them.
var (
	// ErrMembershipExpired indicates the member's registration lapsed
	// more than MembershipDurationYears ago.
	ErrMembershipExpired = errors.New("membership has expired")

	// ErrBorrowLimitExceeded indicates the member already has
	// MaxActiveLoans open loans.
	ErrBorrowLimitExceeded = errors.New("borrowing limit exceeded")

	// ErrHasOverdueBooks indicates the member holds at least one
	// overdue loan and must return it before borrowing again.
	ErrHasOverdueBooks = errors.New("member has overdue books")

	// ErrBookUnavailable indicates the book is currently on loan.
	ErrBookUnavailable = errors.New("book is not available")

	// ErrAlreadyReturned indicates the loan has already been closed.
	ErrAlreadyReturned = errors.New("book already returned")

	// ErrRenewalLimitReached indicates the loan has been renewed
	// MaxRenewals times already.
	ErrRenewalLimitReached = errors.New("renewal limit reached")

	// ErrLoanOverdue indicates an overdue loan, which must be returned
	// rather than renewed.
	ErrLoanOverdue = errors.New("loan is overdue")

	// ErrBookOnLoan indicates a book cannot be removed from the catalog
	// while a loan on it is open.
	ErrBookOnLoan = errors.New("book has an open loan")

	// ErrMemberHasLoans indicates a member cannot be removed while they
	// still hold open loans.
	ErrMemberHasLoans = errors.New("member has open loans")

	// ErrConflict indicates the operation repeatedly lost races against
	// concurrent transitions and gave up. Unlike the rejections above it
	// is retryable: no business rule forbids the transition, the engine
	// just could not commit it atomically this time.
	ErrConflict = errors.New("operation conflicted with a concurrent update")
)

// IsBusinessRejection reports whether err is one of the circulation
// rule rejections (as opposed to a not-found, conflict, or internal
// failure).
func IsBusinessRejection(err error) bool {
	return errors.Is(err, ErrMembershipExpired) ||
		errors.Is(err, ErrBorrowLimitExceeded) ||
		errors.Is(err, ErrHasOverdueBooks) ||
		errors.Is(err, ErrBookUnavailable) ||
		errors.Is(err, ErrAlreadyReturned) ||
		errors.Is(err, ErrRenewalLimitReached) ||
		errors.Is(err, ErrLoanOverdue) ||
		errors.Is(err, ErrBookOnLoan) ||
		errors.Is(err, ErrMemberHasLoans)
}

// LoanServiceError wraps unexpected loan service failures with the
// operation that produced them.
type LoanServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for LoanServiceError.
func (e *LoanServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loan service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("loan service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LoanServiceError) Unwrap() error {
	return e.Err
}

// NewLoanServiceError creates a new LoanServiceError.
func NewLoanServiceError(operation, message string, err error) *LoanServiceError {
	return &LoanServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
