package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCurrentFine(t *testing.T) {
	// Borrowed March 1, due March 15.
	loan, err := NewLoan(uuid.New(), uuid.New(), testDate(2025, time.March, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cases := []struct {
		name  string
		today time.Time
		want  Cents
	}{
		{"before due date", testDate(2025, time.March, 10), 0},
		{"on due date", testDate(2025, time.March, 15), 0},
		{"one day overdue", testDate(2025, time.March, 16), 50},
		{"ten days overdue", testDate(2025, time.March, 25), 500},
		{"at the cap", testDate(2025, time.April, 24), 2000},
		{"past the cap", testDate(2025, time.May, 4), 2000},
	}

	for _, tc := range cases {
		if got := CurrentFine(loan, tc.today); got != tc.want {
			t.Errorf("%s: CurrentFine = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCurrentFineReturnedLoan(t *testing.T) {
	loan, err := NewLoan(uuid.New(), uuid.New(), testDate(2025, time.March, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	returnedAt := testDate(2025, time.March, 25)
	loan.ReturnedAt = &returnedAt
	loan.FineAmount = 500

	// The projection reports nothing for a closed loan; the frozen
	// FineAmount is authoritative.
	if got := CurrentFine(loan, testDate(2025, time.June, 1)); got != 0 {
		t.Errorf("CurrentFine on returned loan = %v, want 0", got)
	}
}

func TestCurrentFineNeverMutates(t *testing.T) {
	loan, err := NewLoan(uuid.New(), uuid.New(), testDate(2025, time.March, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	before := *loan
	_ = CurrentFine(loan, testDate(2025, time.March, 25))
	if *loan != before {
		t.Error("Expected CurrentFine to leave the loan unchanged")
	}
}
