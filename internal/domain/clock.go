package domain

import "time"

// Clock supplies the current civil date. Every operation that depends
// on "today" takes its date from a Clock instead of reading the wall
// clock directly, which keeps due-date and fine arithmetic
// deterministic under test.
type Clock interface {
	// Today returns the current date truncated to UTC midnight.
	Today() time.Time
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by the system wall clock.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Today() time.Time {
	return Midnight(time.Now().UTC())
}

// FixedClock is a Clock pinned to a single date, for tests.
type FixedClock struct {
	Date time.Time
}

// NewFixedClock returns a Clock that always reports the given date.
func NewFixedClock(date time.Time) *FixedClock {
	return &FixedClock{Date: Midnight(date)}
}

func (c *FixedClock) Today() time.Time {
	return c.Date
}

// Advance moves the fixed clock forward by the given number of days.
func (c *FixedClock) Advance(days int) {
	c.Date = c.Date.AddDate(0, 0, days)
}

// Midnight truncates t to the start of its UTC day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b. Both are
// truncated to UTC midnight first, so partial days never count.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)) / (24 * time.Hour))
}
