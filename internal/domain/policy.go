package domain

// Circulation policy. These are business constants, not configuration:
// changing them changes what the library promises its members, so they
// are deliberately compiled in rather than loaded from the environment.
const (
	// LoanDurationDays is the length of a loan period. Borrowing and
	// each renewal push the due date out by this many days.
	LoanDurationDays = 14

	// MaxRenewals is the number of times a single loan may be renewed.
	MaxRenewals = 2

	// DailyFineCents is the fine accrued per whole day a loan is
	// overdue, in minor currency units.
	DailyFineCents Cents = 50

	// MaxFineCents caps the fine on any single loan.
	MaxFineCents Cents = 2000

	// MembershipDurationYears is how long a membership is valid after
	// the registration date.
	MembershipDurationYears = 1

	// MaxActiveLoans is the number of loans a member may have open at
	// the same time.
	MaxActiveLoans = 3
)
