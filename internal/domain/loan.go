package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Loan-specific validation errors
var (
	// ErrLoanIDEmpty is returned when a loan ID is empty or nil.
	ErrLoanIDEmpty = fmt.Errorf("%w: loan ID cannot be empty", ErrInvalidID)

	// ErrLoanMemberIDEmpty is returned when a loan's member ID is empty or nil.
	ErrLoanMemberIDEmpty = fmt.Errorf("%w: loan member ID cannot be empty", ErrInvalidID)

	// ErrLoanBookIDEmpty is returned when a loan's book ID is empty or nil.
	ErrLoanBookIDEmpty = fmt.Errorf("%w: loan book ID cannot be empty", ErrInvalidID)

	// ErrLoanDatesInvalid is returned when a loan's due date is not
	// after its borrow date.
	ErrLoanDatesInvalid = fmt.Errorf("%w: loan due date must be after borrow date", ErrInvalidDate)

	// ErrLoanRenewCountNegative is returned when a loan's renew count
	// is negative.
	ErrLoanRenewCountNegative = fmt.Errorf("%w: loan renew count cannot be negative", ErrValidation)

	// ErrLoanFineNegative is returned when a loan's fine amount is negative.
	ErrLoanFineNegative = fmt.Errorf("%w: loan fine amount cannot be negative", ErrValidation)
)

// Loan records one lending of one book to one member. It references
// the member and book by ID only; neither entity embeds its loans.
//
// A loan is open until ReturnedAt is set, which happens exactly once.
// FineAmount stays zero while the loan is open and is frozen at return
// time to whatever fine had accrued at that instant.
type Loan struct {
	ID         uuid.UUID  `json:"id"`
	MemberID   uuid.UUID  `json:"member_id"`
	BookID     uuid.UUID  `json:"book_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	RenewCount int        `json:"renew_count"`
	FineAmount Cents      `json:"fine_amount"`
}

// NewLoan creates a new open Loan borrowed on the given date, due
// LoanDurationDays later.
// Returns an error if validation fails.
func NewLoan(memberID, bookID uuid.UUID, borrowDate time.Time) (*Loan, error) {
	borrowDate = Midnight(borrowDate)
	loan := &Loan{
		ID:         uuid.New(),
		MemberID:   memberID,
		BookID:     bookID,
		BorrowDate: borrowDate,
		DueDate:    borrowDate.AddDate(0, 0, LoanDurationDays),
		RenewCount: 0,
		FineAmount: 0,
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	return loan, nil
}

// Validate checks if the Loan has valid data.
// Returns an error if any field fails validation.
func (l *Loan) Validate() error {
	if l.ID == uuid.Nil {
		return ErrLoanIDEmpty
	}

	if l.MemberID == uuid.Nil {
		return ErrLoanMemberIDEmpty
	}

	if l.BookID == uuid.Nil {
		return ErrLoanBookIDEmpty
	}

	if !l.DueDate.After(l.BorrowDate) {
		return ErrLoanDatesInvalid
	}

	if l.RenewCount < 0 {
		return ErrLoanRenewCountNegative
	}

	if l.FineAmount < 0 {
		return ErrLoanFineNegative
	}

	return nil
}

// IsReturned reports whether the loan has been closed.
func (l *Loan) IsReturned() bool {
	return l.ReturnedAt != nil
}

// IsOverdue reports whether the loan is open and past its due date on
// the given date. Overdue is derived, never stored: a loan due today
// is not yet overdue.
func (l *Loan) IsOverdue(today time.Time) bool {
	return !l.IsReturned() && Midnight(today).After(l.DueDate)
}

// OverdueDays returns the number of whole days the loan is past due on
// the given date, or 0 if it is returned or not yet due.
func (l *Loan) OverdueDays(today time.Time) int {
	if !l.IsOverdue(today) {
		return 0
	}
	return DaysBetween(l.DueDate, today)
}
