package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewLoan(t *testing.T) {
	memberID := uuid.New()
	bookID := uuid.New()
	borrowDate := testDate(2025, time.March, 1)

	loan, err := NewLoan(memberID, bookID, borrowDate)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if loan.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if loan.MemberID != memberID {
		t.Errorf("Expected member ID %s, got %s", memberID, loan.MemberID)
	}

	if loan.BookID != bookID {
		t.Errorf("Expected book ID %s, got %s", bookID, loan.BookID)
	}

	if !loan.BorrowDate.Equal(borrowDate) {
		t.Errorf("Expected borrow date %v, got %v", borrowDate, loan.BorrowDate)
	}

	wantDue := testDate(2025, time.March, 15)
	if !loan.DueDate.Equal(wantDue) {
		t.Errorf("Expected due date %v, got %v", wantDue, loan.DueDate)
	}

	if loan.ReturnedAt != nil {
		t.Error("Expected new loan to be open")
	}

	if loan.RenewCount != 0 {
		t.Errorf("Expected renew count 0, got %d", loan.RenewCount)
	}

	if loan.FineAmount != 0 {
		t.Errorf("Expected fine amount 0, got %v", loan.FineAmount)
	}

	// Borrow dates carrying a time component are truncated to midnight.
	loan, err = NewLoan(memberID, bookID, time.Date(2025, time.March, 1, 17, 45, 3, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !loan.BorrowDate.Equal(borrowDate) {
		t.Errorf("Expected borrow date truncated to %v, got %v", borrowDate, loan.BorrowDate)
	}

	// Test invalid IDs
	_, err = NewLoan(uuid.Nil, bookID, borrowDate)
	if err != ErrLoanMemberIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrLoanMemberIDEmpty, err)
	}

	_, err = NewLoan(memberID, uuid.Nil, borrowDate)
	if err != ErrLoanBookIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrLoanBookIDEmpty, err)
	}
}

func TestLoanValidate(t *testing.T) {
	validLoan := Loan{
		ID:         uuid.New(),
		MemberID:   uuid.New(),
		BookID:     uuid.New(),
		BorrowDate: testDate(2025, time.March, 1),
		DueDate:    testDate(2025, time.March, 15),
	}

	if err := validLoan.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidLoan := validLoan
	invalidLoan.ID = uuid.Nil
	if err := invalidLoan.Validate(); err != ErrLoanIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrLoanIDEmpty, err)
	}

	invalidLoan = validLoan
	invalidLoan.MemberID = uuid.Nil
	if err := invalidLoan.Validate(); err != ErrLoanMemberIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrLoanMemberIDEmpty, err)
	}

	invalidLoan = validLoan
	invalidLoan.BookID = uuid.Nil
	if err := invalidLoan.Validate(); err != ErrLoanBookIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrLoanBookIDEmpty, err)
	}

	invalidLoan = validLoan
	invalidLoan.DueDate = invalidLoan.BorrowDate
	if err := invalidLoan.Validate(); err != ErrLoanDatesInvalid {
		t.Errorf("Expected error %v, got %v", ErrLoanDatesInvalid, err)
	}

	invalidLoan = validLoan
	invalidLoan.RenewCount = -1
	if err := invalidLoan.Validate(); err != ErrLoanRenewCountNegative {
		t.Errorf("Expected error %v, got %v", ErrLoanRenewCountNegative, err)
	}

	invalidLoan = validLoan
	invalidLoan.FineAmount = -50
	if err := invalidLoan.Validate(); err != ErrLoanFineNegative {
		t.Errorf("Expected error %v, got %v", ErrLoanFineNegative, err)
	}
}

func TestLoanIsOverdue(t *testing.T) {
	loan, err := NewLoan(uuid.New(), uuid.New(), testDate(2025, time.March, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Before the due date
	if loan.IsOverdue(testDate(2025, time.March, 10)) {
		t.Error("Expected loan not to be overdue before the due date")
	}

	// A loan due today is not yet overdue
	if loan.IsOverdue(testDate(2025, time.March, 15)) {
		t.Error("Expected loan not to be overdue on its due date")
	}

	// The day after the due date it is
	if !loan.IsOverdue(testDate(2025, time.March, 16)) {
		t.Error("Expected loan to be overdue the day after its due date")
	}

	// A returned loan is never overdue
	returnedAt := testDate(2025, time.March, 20)
	loan.ReturnedAt = &returnedAt
	if loan.IsOverdue(testDate(2025, time.April, 1)) {
		t.Error("Expected returned loan not to be overdue")
	}
}

func TestLoanOverdueDays(t *testing.T) {
	loan, err := NewLoan(uuid.New(), uuid.New(), testDate(2025, time.March, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cases := []struct {
		today time.Time
		want  int
	}{
		{testDate(2025, time.March, 10), 0},
		{testDate(2025, time.March, 15), 0},
		{testDate(2025, time.March, 16), 1},
		{testDate(2025, time.March, 25), 10},
	}

	for _, tc := range cases {
		if got := loan.OverdueDays(tc.today); got != tc.want {
			t.Errorf("OverdueDays(%v) = %d, want %d", tc.today, got, tc.want)
		}
	}
}
