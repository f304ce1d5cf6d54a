package domain

import (
	"errors"
	"testing"
)

// TestValidationSentinelRoots pins the error taxonomy: every per-field
// sentinel is reachable through its category root, and every root is
// reachable through ErrValidation.
func TestValidationSentinelRoots(t *testing.T) {
	cases := []struct {
		err  error
		root error
	}{
		{ErrInvalidID, ErrValidation},
		{ErrInvalidEmail, ErrValidation},
		{ErrInvalidDate, ErrValidation},
		{ErrBookIDEmpty, ErrInvalidID},
		{ErrBookTitleEmpty, ErrValidation},
		{ErrBookISBNEmpty, ErrValidation},
		{ErrMemberIDEmpty, ErrInvalidID},
		{ErrMemberNameEmpty, ErrValidation},
		{ErrMemberEmailInvalid, ErrInvalidEmail},
		{ErrMemberRegistrationMissing, ErrInvalidDate},
		{ErrLoanIDEmpty, ErrInvalidID},
		{ErrLoanMemberIDEmpty, ErrInvalidID},
		{ErrLoanBookIDEmpty, ErrInvalidID},
		{ErrLoanDatesInvalid, ErrInvalidDate},
		{ErrLoanRenewCountNegative, ErrValidation},
		{ErrLoanFineNegative, ErrValidation},
	}

	for _, tc := range cases {
		if !errors.Is(tc.err, tc.root) {
			t.Errorf("Expected %v to wrap %v", tc.err, tc.root)
		}
		if !errors.Is(tc.err, ErrValidation) {
			t.Errorf("Expected %v to wrap ErrValidation", tc.err)
		}
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("member", "member email is invalid", ErrMemberEmailInvalid)

	if err.Field != "member" {
		t.Errorf("Expected field member, got %s", err.Field)
	}

	want := "validation failed for member: member email is invalid"
	if err.Error() != want {
		t.Errorf("Expected error string %q, got %q", want, err.Error())
	}

	// The wrapped sentinel and its roots stay matchable.
	if !errors.Is(err, ErrMemberEmailInvalid) {
		t.Error("Expected ValidationError to wrap the field sentinel")
	}
	if !errors.Is(err, ErrInvalidEmail) {
		t.Error("Expected ValidationError to reach ErrInvalidEmail")
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("Expected ValidationError to reach ErrValidation")
	}

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Error("Expected errors.As to find the ValidationError")
	}
}
