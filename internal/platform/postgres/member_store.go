package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/bookstacks/circulation/internal/store"
	"github.com/google/uuid"
)

// PostgresMemberStore implements the store.MemberStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMemberStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMemberStore creates a new PostgreSQL implementation of the
// MemberStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresMemberStore(db store.DBTX, logger *slog.Logger) *PostgresMemberStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMemberStore{
		db:     db,
		logger: logger.With(slog.String("component", "member_store")),
	}
}

// Ensure PostgresMemberStore implements store.MemberStore interface
var _ store.MemberStore = (*PostgresMemberStore)(nil)

// WithTx implements store.MemberStore.WithTx
func (s *PostgresMemberStore) WithTx(tx *sql.Tx) store.MemberStore {
	return &PostgresMemberStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.MemberStore.Create
func (s *PostgresMemberStore) Create(ctx context.Context, member *domain.Member) error {
	if err := member.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO members (id, name, email, registration_date, active)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.Email,
		member.RegistrationDate,
		member.Active,
	)
	if err != nil {
		if IsUniqueViolation(err, "members_email_key") {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return MapError(err)
	}

	return nil
}

// GetByID implements store.MemberStore.GetByID
func (s *PostgresMemberStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `
		SELECT id, name, email, registration_date, active
		FROM members
		WHERE id = $1
	`

	member, err := scanMember(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrMemberNotFound, err)
		}
		return nil, MapError(err)
	}

	return member, nil
}

// GetByEmail implements store.MemberStore.GetByEmail
func (s *PostgresMemberStore) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	query := `
		SELECT id, name, email, registration_date, active
		FROM members
		WHERE email = $1
	`

	member, err := scanMember(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrMemberNotFound, err)
		}
		return nil, MapError(err)
	}

	return member, nil
}

// List implements store.MemberStore.List
func (s *PostgresMemberStore) List(ctx context.Context) ([]*domain.Member, error) {
	query := `
		SELECT id, name, email, registration_date, active
		FROM members
		ORDER BY name, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, MapError(err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return members, nil
}

// Update implements store.MemberStore.Update
func (s *PostgresMemberStore) Update(ctx context.Context, member *domain.Member) error {
	if err := member.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE members
		SET name = $2, email = $3, registration_date = $4, active = $5
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.Email,
		member.RegistrationDate,
		member.Active,
	)
	if err != nil {
		if IsUniqueViolation(err, "members_email_key") {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "member"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrMemberNotFound, err)
	}

	return nil
}

// Delete implements store.MemberStore.Delete
func (s *PostgresMemberStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM members WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "member"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrMemberNotFound, err)
	}

	return nil
}

func scanMember(row rowScanner) (*domain.Member, error) {
	var member domain.Member
	err := row.Scan(
		&member.ID,
		&member.Name,
		&member.Email,
		&member.RegistrationDate,
		&member.Active,
	)
	if err != nil {
		return nil, err
	}
	member.RegistrationDate = domain.Midnight(member.RegistrationDate)
	return &member, nil
}
