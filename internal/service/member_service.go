package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/bookstacks/circulation/internal/platform/logger"
	"github.com/bookstacks/circulation/internal/store"
	"github.com/google/uuid"
)

// MemberService provides member registration and profile operations.
type MemberService interface {
	// RegisterMember creates a new member registered as of today.
	// Returns store.ErrEmailExists if the email is taken.
	RegisterMember(ctx context.Context, name, email string) (*domain.Member, error)

	// GetMember retrieves a member by ID.
	GetMember(ctx context.Context, memberID uuid.UUID) (*domain.Member, error)

	// GetMemberByEmail retrieves a member by email address.
	GetMemberByEmail(ctx context.Context, email string) (*domain.Member, error)

	// ListMembers retrieves all members ordered by name.
	ListMembers(ctx context.Context) ([]*domain.Member, error)

	// UpdateMember modifies a member's profile fields.
	UpdateMember(ctx context.Context, member *domain.Member) (*domain.Member, error)

	// DeactivateMember marks a member inactive. Their loan history is
	// kept; open loans can still be returned.
	DeactivateMember(ctx context.Context, memberID uuid.UUID) (*domain.Member, error)

	// DeleteMember removes a member entirely. Returns ErrMemberHasLoans
	// while the member still holds open loans; deactivation is the
	// softer alternative that keeps history.
	DeleteMember(ctx context.Context, memberID uuid.UUID) error

	// MembershipValid reports whether the member's registration is
	// still current as of today.
	MembershipValid(ctx context.Context, memberID uuid.UUID) (bool, error)
}

// memberServiceImpl implements the MemberService interface.
type memberServiceImpl struct {
	members store.MemberStore
	loans   store.LoanStore
	tx      store.TxRunner
	clock   domain.Clock
	logger  *slog.Logger
}

// NewMemberService creates a new MemberService.
func NewMemberService(
	members store.MemberStore,
	loans store.LoanStore,
	tx store.TxRunner,
	clock domain.Clock,
	logger *slog.Logger,
) MemberService {
	if members == nil {
		panic("members store cannot be nil")
	}
	if loans == nil {
		panic("loans store cannot be nil")
	}
	if tx == nil {
		panic("tx runner cannot be nil")
	}
	if clock == nil {
		clock = domain.NewSystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &memberServiceImpl{
		members: members,
		loans:   loans,
		tx:      tx,
		clock:   clock,
		logger:  logger.With(slog.String("component", "member_service")),
	}
}

// Ensure memberServiceImpl implements MemberService
var _ MemberService = (*memberServiceImpl)(nil)

// RegisterMember implements MemberService.RegisterMember.
func (s *memberServiceImpl) RegisterMember(
	ctx context.Context,
	name, email string,
) (*domain.Member, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	member, err := domain.NewMember(name, email, s.clock.Today())
	if err != nil {
		return nil, domain.NewValidationError("member", err.Error(), err)
	}

	if err := s.members.Create(ctx, member); err != nil {
		log.Error("failed to register member",
			slog.String("email", email),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("member registered",
		slog.String("member_id", member.ID.String()),
		slog.Time("registration_date", member.RegistrationDate))
	return member, nil
}

// GetMember implements MemberService.GetMember.
func (s *memberServiceImpl) GetMember(ctx context.Context, memberID uuid.UUID) (*domain.Member, error) {
	return s.members.GetByID(ctx, memberID)
}

// GetMemberByEmail implements MemberService.GetMemberByEmail.
func (s *memberServiceImpl) GetMemberByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return s.members.GetByEmail(ctx, email)
}

// ListMembers implements MemberService.ListMembers.
func (s *memberServiceImpl) ListMembers(ctx context.Context) ([]*domain.Member, error) {
	return s.members.List(ctx)
}

// UpdateMember implements MemberService.UpdateMember.
func (s *memberServiceImpl) UpdateMember(
	ctx context.Context,
	member *domain.Member,
) (*domain.Member, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := member.Validate(); err != nil {
		return nil, domain.NewValidationError("member", err.Error(), err)
	}

	if err := s.members.Update(ctx, member); err != nil {
		log.Error("failed to update member",
			slog.String("member_id", member.ID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	return member, nil
}

// DeactivateMember implements MemberService.DeactivateMember.
func (s *memberServiceImpl) DeactivateMember(
	ctx context.Context,
	memberID uuid.UUID,
) (*domain.Member, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if !member.Active {
		return member, nil
	}

	member.Active = false
	if err := s.members.Update(ctx, member); err != nil {
		log.Error("failed to deactivate member",
			slog.String("member_id", memberID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("member deactivated", slog.String("member_id", memberID.String()))
	return member, nil
}

// DeleteMember implements MemberService.DeleteMember.
// The open-loan check and the delete run in one transaction so a
// concurrent borrow cannot slip between them.
func (s *memberServiceImpl) DeleteMember(ctx context.Context, memberID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		members := s.members.WithTx(tx)
		loans := s.loans.WithTx(tx)

		open, err := loans.ListOpenByMember(ctx, memberID)
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return ErrMemberHasLoans
		}

		return members.Delete(ctx, memberID)
	})
	if err != nil {
		if IsBusinessRejection(err) || store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to delete member",
			slog.String("member_id", memberID.String()),
			slog.String("error", err.Error()))
		return err
	}

	log.Info("member deleted", slog.String("member_id", memberID.String()))
	return nil
}

// MembershipValid implements MemberService.MembershipValid.
func (s *memberServiceImpl) MembershipValid(ctx context.Context, memberID uuid.UUID) (bool, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return false, err
	}
	return member.MembershipValid(s.clock.Today()), nil
}
