package store

import (
	"context"
	"database/sql"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/google/uuid"
)

// MemberStore defines the interface for member data persistence.
type MemberStore interface {
	// Create saves a new member to the store.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain Member if data is invalid.
	Create(ctx context.Context, member *domain.Member) error

	// GetByID retrieves a member by their unique ID.
	// Returns ErrMemberNotFound if the member does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)

	// GetByEmail retrieves a member by their email address.
	// Returns ErrMemberNotFound if the member does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)

	// List retrieves all members ordered by name.
	List(ctx context.Context) ([]*domain.Member, error)

	// Update modifies an existing member's details.
	// Returns ErrMemberNotFound if the member does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, member *domain.Member) error

	// Delete removes a member from the store by their ID.
	// Returns ErrMemberNotFound if the member does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new MemberStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) MemberStore
}
