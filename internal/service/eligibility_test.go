package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookstacks/circulation/internal/domain"
)

func eligibleMember(t *testing.T) *domain.Member {
	t.Helper()
	member, err := domain.NewMember("Test Member", "reader@example.com", date(2025, time.January, 1))
	require.NoError(t, err)
	return member
}

func availableBook(t *testing.T) *domain.Book {
	t.Helper()
	book, err := domain.NewBook("Test Book", "Test Author", "isbn-1", 2020)
	require.NoError(t, err)
	return book
}

func openLoan(t *testing.T, memberID uuid.UUID, borrowDate time.Time) *domain.Loan {
	t.Helper()
	loan, err := domain.NewLoan(memberID, uuid.New(), borrowDate)
	require.NoError(t, err)
	return loan
}

func TestCanBorrow(t *testing.T) {
	today := date(2025, time.March, 1)

	t.Run("eligible", func(t *testing.T) {
		member := eligibleMember(t)
		assert.NoError(t, CanBorrow(member, nil, availableBook(t), today))
	})

	t.Run("membership expired", func(t *testing.T) {
		member, err := domain.NewMember("Test Member", "lapsed@example.com", date(2024, time.February, 1))
		require.NoError(t, err)
		assert.ErrorIs(t, CanBorrow(member, nil, availableBook(t), today), ErrMembershipExpired)
	})

	t.Run("at the loan limit", func(t *testing.T) {
		member := eligibleMember(t)
		var loans []*domain.Loan
		for i := 0; i < domain.MaxActiveLoans; i++ {
			loans = append(loans, openLoan(t, member.ID, date(2025, time.February, 20)))
		}
		assert.ErrorIs(t, CanBorrow(member, loans, availableBook(t), today), ErrBorrowLimitExceeded)
	})

	t.Run("below the loan limit", func(t *testing.T) {
		member := eligibleMember(t)
		var loans []*domain.Loan
		for i := 0; i < domain.MaxActiveLoans-1; i++ {
			loans = append(loans, openLoan(t, member.ID, date(2025, time.February, 20)))
		}
		assert.NoError(t, CanBorrow(member, loans, availableBook(t), today))
	})

	t.Run("holding an overdue loan", func(t *testing.T) {
		member := eligibleMember(t)
		loans := []*domain.Loan{openLoan(t, member.ID, date(2025, time.January, 20))}
		assert.ErrorIs(t, CanBorrow(member, loans, availableBook(t), today), ErrHasOverdueBooks)
	})

	t.Run("book unavailable", func(t *testing.T) {
		member := eligibleMember(t)
		book := availableBook(t)
		book.Available = false
		assert.ErrorIs(t, CanBorrow(member, nil, book, today), ErrBookUnavailable)
	})
}

// TestCanBorrowFirstFailureWins pins the order the rules are evaluated
// in, so a member failing several at once always hears the same reason.
func TestCanBorrowFirstFailureWins(t *testing.T) {
	today := date(2025, time.March, 1)

	t.Run("expired membership beats unavailable book", func(t *testing.T) {
		member, err := domain.NewMember("Test Member", "lapsed@example.com", date(2024, time.February, 1))
		require.NoError(t, err)
		book := availableBook(t)
		book.Available = false
		assert.ErrorIs(t, CanBorrow(member, nil, book, today), ErrMembershipExpired)
	})

	t.Run("loan limit beats overdue books", func(t *testing.T) {
		member := eligibleMember(t)
		loans := []*domain.Loan{
			openLoan(t, member.ID, date(2025, time.January, 20)), // overdue
			openLoan(t, member.ID, date(2025, time.February, 25)),
			openLoan(t, member.ID, date(2025, time.February, 25)),
		}
		assert.ErrorIs(t, CanBorrow(member, loans, availableBook(t), today), ErrBorrowLimitExceeded)
	})

	t.Run("overdue books beat unavailable book", func(t *testing.T) {
		member := eligibleMember(t)
		loans := []*domain.Loan{openLoan(t, member.ID, date(2025, time.January, 20))}
		book := availableBook(t)
		book.Available = false
		assert.ErrorIs(t, CanBorrow(member, loans, book, today), ErrHasOverdueBooks)
	})
}

func TestCanRenew(t *testing.T) {
	today := date(2025, time.March, 20)

	t.Run("renewable", func(t *testing.T) {
		loan := openLoan(t, uuid.New(), date(2025, time.March, 10))
		assert.NoError(t, CanRenew(loan, today))
	})

	t.Run("due today is still renewable", func(t *testing.T) {
		loan := openLoan(t, uuid.New(), date(2025, time.March, 6))
		assert.NoError(t, CanRenew(loan, today))
	})

	t.Run("already returned", func(t *testing.T) {
		loan := openLoan(t, uuid.New(), date(2025, time.March, 10))
		returnedAt := date(2025, time.March, 15)
		loan.ReturnedAt = &returnedAt
		assert.ErrorIs(t, CanRenew(loan, today), ErrAlreadyReturned)
	})

	t.Run("at the renewal limit", func(t *testing.T) {
		loan := openLoan(t, uuid.New(), date(2025, time.March, 10))
		loan.RenewCount = domain.MaxRenewals
		assert.ErrorIs(t, CanRenew(loan, today), ErrRenewalLimitReached)
	})

	t.Run("overdue", func(t *testing.T) {
		loan := openLoan(t, uuid.New(), date(2025, time.March, 1))
		assert.ErrorIs(t, CanRenew(loan, today), ErrLoanOverdue)
	})

	t.Run("returned beats overdue", func(t *testing.T) {
		loan := openLoan(t, uuid.New(), date(2025, time.March, 1))
		returnedAt := date(2025, time.March, 18)
		loan.ReturnedAt = &returnedAt
		assert.ErrorIs(t, CanRenew(loan, today), ErrAlreadyReturned)
	})
}
