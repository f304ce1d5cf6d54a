package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/bookstacks/circulation/internal/mocks"
	"github.com/bookstacks/circulation/internal/store"
)

type membershipFixture struct {
	members *mocks.MockMemberStore
	loans   *mocks.MockLoanStore
	clock   *domain.FixedClock
	svc     MemberService
}

func newMembershipFixture(t *testing.T) *membershipFixture {
	t.Helper()

	f := &membershipFixture{
		members: mocks.NewMockMemberStore(),
		loans:   mocks.NewMockLoanStore(),
		clock:   domain.NewFixedClock(date(2025, time.March, 1)),
	}
	f.svc = NewMemberService(f.members, f.loans, mocks.NewMockTxRunner(), f.clock, discardLogger())
	return f
}

func TestRegisterMember(t *testing.T) {
	f := newMembershipFixture(t)

	member, err := f.svc.RegisterMember(context.Background(), "Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	assert.True(t, member.RegistrationDate.Equal(date(2025, time.March, 1)),
		"registration date comes from the clock")
	assert.True(t, member.Active)

	// Duplicate email
	_, err = f.svc.RegisterMember(context.Background(), "Ada Again", "ada@example.com")
	assert.ErrorIs(t, err, store.ErrEmailExists)

	// Validation failure never reaches the store and arrives wrapped
	// with the offending input.
	_, err = f.svc.RegisterMember(context.Background(), "Nameless", "not-an-email")
	assert.ErrorIs(t, err, domain.ErrMemberEmailInvalid)
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "member", valErr.Field)
}

func TestGetMemberByEmail(t *testing.T) {
	f := newMembershipFixture(t)

	created, err := f.svc.RegisterMember(context.Background(), "Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	got, err := f.svc.GetMemberByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.svc.GetMemberByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, store.ErrMemberNotFound)
}

func TestDeactivateMember(t *testing.T) {
	f := newMembershipFixture(t)

	member, err := f.svc.RegisterMember(context.Background(), "Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	deactivated, err := f.svc.DeactivateMember(context.Background(), member.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	// Deactivating twice is a no-op, not an error.
	again, err := f.svc.DeactivateMember(context.Background(), member.ID)
	require.NoError(t, err)
	assert.False(t, again.Active)
}

func TestDeleteMember(t *testing.T) {
	f := newMembershipFixture(t)

	member, err := f.svc.RegisterMember(context.Background(), "Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteMember(context.Background(), member.ID))

	_, err = f.svc.GetMember(context.Background(), member.ID)
	assert.ErrorIs(t, err, store.ErrMemberNotFound)

	// Deleting again reports not found.
	err = f.svc.DeleteMember(context.Background(), member.ID)
	assert.ErrorIs(t, err, store.ErrMemberNotFound)
}

func TestDeleteMemberWithOpenLoan(t *testing.T) {
	f := newMembershipFixture(t)

	member, err := f.svc.RegisterMember(context.Background(), "Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	loan, err := domain.NewLoan(member.ID, uuid.New(), date(2025, time.March, 1))
	require.NoError(t, err)
	f.loans.Seed(loan)

	err = f.svc.DeleteMember(context.Background(), member.ID)
	assert.ErrorIs(t, err, ErrMemberHasLoans)

	// The member survives until the loan comes back.
	_, err = f.svc.GetMember(context.Background(), member.ID)
	require.NoError(t, err)

	returnedAt := date(2025, time.March, 10)
	loan.ReturnedAt = &returnedAt
	require.NoError(t, f.loans.Update(context.Background(), loan))

	assert.NoError(t, f.svc.DeleteMember(context.Background(), member.ID))
}

func TestMembershipValidity(t *testing.T) {
	f := newMembershipFixture(t)

	member, err := f.svc.RegisterMember(context.Background(), "Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	valid, err := f.svc.MembershipValid(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, valid)

	// The day before the anniversary it still holds.
	f.clock.Date = date(2026, time.February, 28)
	valid, err = f.svc.MembershipValid(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, valid)

	// On the anniversary it has lapsed.
	f.clock.Date = date(2026, time.March, 1)
	valid, err = f.svc.MembershipValid(context.Background(), member.ID)
	require.NoError(t, err)
	assert.False(t, valid)
}
