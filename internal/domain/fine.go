package domain

import "time"

// CurrentFine computes the fine accrued by a loan as of the given
// date: DailyFineCents per whole overdue day, capped at MaxFineCents.
// Returned loans and loans within their due date accrue nothing.
//
// The function is a pure projection of (loan, today); it never mutates
// the loan. The lifecycle engine freezes its result into
// Loan.FineAmount exactly once, at return time, using the same date
// basis as the rest of that transition.
func CurrentFine(loan *Loan, today time.Time) Cents {
	days := loan.OverdueDays(today)
	if days == 0 {
		return 0
	}
	return MinCents(Cents(days)*DailyFineCents, MaxFineCents)
}
