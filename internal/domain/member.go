package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Member-specific validation errors
var (
	// ErrMemberIDEmpty is returned when a member ID is empty or nil.
	ErrMemberIDEmpty = fmt.Errorf("%w: member ID cannot be empty", ErrInvalidID)

	// ErrMemberNameEmpty is returned when a member name is empty.
	ErrMemberNameEmpty = fmt.Errorf("%w: member name cannot be empty", ErrValidation)

	// ErrMemberEmailInvalid is returned when a member email is missing
	// or malformed.
	ErrMemberEmailInvalid = fmt.Errorf("%w: member email is invalid", ErrInvalidEmail)

	// ErrMemberRegistrationMissing is returned when a member has no
	// registration date.
	ErrMemberRegistrationMissing = fmt.Errorf("%w: member registration date cannot be zero", ErrInvalidDate)
)

// Member represents a registered library member. Loan history is not
// embedded here; the engine queries the loan store by member ID when it
// needs open-loan counts or overdue checks.
type Member struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	RegistrationDate time.Time `json:"registration_date"`
	Active           bool      `json:"active"`
}

// NewMember creates a new Member registered on the given date.
// Returns an error if validation fails.
func NewMember(name, email string, registrationDate time.Time) (*Member, error) {
	member := &Member{
		ID:               uuid.New(),
		Name:             name,
		Email:            email,
		RegistrationDate: Midnight(registrationDate),
		Active:           true,
	}

	if err := member.Validate(); err != nil {
		return nil, err
	}

	return member, nil
}

// Validate checks if the Member has valid data.
// Returns an error if any field fails validation.
func (m *Member) Validate() error {
	if m.ID == uuid.Nil {
		return ErrMemberIDEmpty
	}

	if m.Name == "" {
		return ErrMemberNameEmpty
	}

	if !strings.Contains(m.Email, "@") {
		return ErrMemberEmailInvalid
	}

	if m.RegistrationDate.IsZero() {
		return ErrMemberRegistrationMissing
	}

	return nil
}

// MembershipExpiresAt returns the date the membership lapses.
func (m *Member) MembershipExpiresAt() time.Time {
	return m.RegistrationDate.AddDate(MembershipDurationYears, 0, 0)
}

// MembershipValid reports whether the membership is still current on
// the given date. A membership is valid strictly before its expiry
// date: on the anniversary itself it has already lapsed.
func (m *Member) MembershipValid(today time.Time) bool {
	return Midnight(today).Before(m.MembershipExpiresAt())
}
