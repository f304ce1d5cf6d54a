package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/bookstacks/circulation/internal/store"
	"github.com/google/uuid"
)

// MockMemberStore implements store.MemberStore for testing.
type MockMemberStore struct {
	mu      sync.Mutex
	Members map[uuid.UUID]*domain.Member

	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, member *domain.Member) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.Member, error)
	ListFn       func(ctx context.Context) ([]*domain.Member, error)
	UpdateFn     func(ctx context.Context, member *domain.Member) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
}

// NewMockMemberStore creates a new mock store with initialized defaults.
func NewMockMemberStore() *MockMemberStore {
	return &MockMemberStore{
		Members: make(map[uuid.UUID]*domain.Member),
	}
}

// Ensure MockMemberStore implements store.MemberStore
var _ store.MemberStore = (*MockMemberStore)(nil)

// Seed stores a copy of the member, bypassing validation.
func (m *MockMemberStore) Seed(member *domain.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *member
	m.Members[member.ID] = &c
}

// Create implements the MemberStore interface.
func (m *MockMemberStore) Create(ctx context.Context, member *domain.Member) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, member)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.Members {
		if existing.Email == member.Email {
			return store.ErrEmailExists
		}
	}

	c := *member
	m.Members[member.ID] = &c
	return nil
}

// GetByID implements the MemberStore interface.
func (m *MockMemberStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	member, ok := m.Members[id]
	if !ok {
		return nil, store.ErrMemberNotFound
	}
	c := *member
	return &c, nil
}

// GetByEmail implements the MemberStore interface.
func (m *MockMemberStore) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, member := range m.Members {
		if member.Email == email {
			c := *member
			return &c, nil
		}
	}
	return nil, store.ErrMemberNotFound
}

// List implements the MemberStore interface.
func (m *MockMemberStore) List(ctx context.Context) ([]*domain.Member, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	members := make([]*domain.Member, 0, len(m.Members))
	for _, member := range m.Members {
		c := *member
		members = append(members, &c)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

// Update implements the MemberStore interface.
func (m *MockMemberStore) Update(ctx context.Context, member *domain.Member) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, member)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Members[member.ID]; !ok {
		return store.ErrMemberNotFound
	}
	c := *member
	m.Members[member.ID] = &c
	return nil
}

// Delete implements the MemberStore interface.
func (m *MockMemberStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Members[id]; !ok {
		return store.ErrMemberNotFound
	}
	delete(m.Members, id)
	return nil
}

// WithTx implements the MemberStore interface. The mock has no
// transactions; it returns itself.
func (m *MockMemberStore) WithTx(tx *sql.Tx) store.MemberStore {
	return m
}
