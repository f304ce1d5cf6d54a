package service

import (
	"time"

	"github.com/bookstacks/circulation/internal/domain"
)

// CanBorrow evaluates whether a member may borrow the given book on the
// given date. openLoans must be the member's currently open loans,
// loaded from the same snapshot this decision will be committed
// against.
//
// The checks run in a fixed order and the first failure wins, so a
// member who is both over the limit and holding overdue books is always
// told the same reason. Returns nil when the borrow may proceed.
func CanBorrow(
	member *domain.Member,
	openLoans []*domain.Loan,
	book *domain.Book,
	today time.Time,
) error {
	if !member.MembershipValid(today) {
		return ErrMembershipExpired
	}

	if len(openLoans) >= domain.MaxActiveLoans {
		return ErrBorrowLimitExceeded
	}

	for _, loan := range openLoans {
		if loan.IsOverdue(today) {
			return ErrHasOverdueBooks
		}
	}

	if !book.Available {
		return ErrBookUnavailable
	}

	return nil
}

// CanRenew evaluates whether a loan may be renewed on the given date.
// Overdue loans cannot be renewed; they have to come back to the desk.
// Returning, by contrast, is never gated — see ReturnBook.
// Returns nil when the renewal may proceed.
func CanRenew(loan *domain.Loan, today time.Time) error {
	if loan.IsReturned() {
		return ErrAlreadyReturned
	}

	if loan.RenewCount >= domain.MaxRenewals {
		return ErrRenewalLimitReached
	}

	if loan.IsOverdue(today) {
		return ErrLoanOverdue
	}

	return nil
}
