package domain

import "fmt"

// Cents is a money amount in minor currency units. Fines are small and
// only ever multiplied by whole day counts, so integer cents avoid the
// rounding drift a float representation would accumulate.
type Cents int64

// String formats the amount as a decimal string, e.g. 500 -> "5.00".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MinCents returns the smaller of two amounts.
func MinCents(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}
