package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/bookstacks/circulation/internal/store"
	"github.com/google/uuid"
)

// MockBookStore implements store.BookStore for testing.
type MockBookStore struct {
	mu    sync.Mutex
	Books map[uuid.UUID]*domain.Book

	// Function fields for customizable behavior
	CreateFn                     func(ctx context.Context, book *domain.Book) error
	GetByIDFn                    func(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	GetByISBNFn                  func(ctx context.Context, isbn string) (*domain.Book, error)
	ListFn                       func(ctx context.Context) ([]*domain.Book, error)
	UpdateFn                     func(ctx context.Context, book *domain.Book) error
	DeleteFn                     func(ctx context.Context, id uuid.UUID) error
	CompareAndSwapAvailabilityFn func(ctx context.Context, id uuid.UUID, expected, newValue bool) error
}

// NewMockBookStore creates a new mock store with initialized defaults.
func NewMockBookStore() *MockBookStore {
	return &MockBookStore{
		Books: make(map[uuid.UUID]*domain.Book),
	}
}

// Ensure MockBookStore implements store.BookStore
var _ store.BookStore = (*MockBookStore)(nil)

// Seed stores a copy of the book, bypassing validation.
func (m *MockBookStore) Seed(book *domain.Book) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *book
	m.Books[book.ID] = &c
}

// Create implements the BookStore interface.
func (m *MockBookStore) Create(ctx context.Context, book *domain.Book) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, book)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.Books {
		if b.ISBN == book.ISBN {
			return store.ErrISBNExists
		}
	}

	c := *book
	m.Books[book.ID] = &c
	return nil
}

// GetByID implements the BookStore interface.
func (m *MockBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.Books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	c := *book
	return &c, nil
}

// GetByISBN implements the BookStore interface.
func (m *MockBookStore) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	if m.GetByISBNFn != nil {
		return m.GetByISBNFn(ctx, isbn)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, book := range m.Books {
		if book.ISBN == isbn {
			c := *book
			return &c, nil
		}
	}
	return nil, store.ErrBookNotFound
}

// List implements the BookStore interface.
func (m *MockBookStore) List(ctx context.Context) ([]*domain.Book, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	books := make([]*domain.Book, 0, len(m.Books))
	for _, book := range m.Books {
		c := *book
		books = append(books, &c)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

// Update implements the BookStore interface.
// Like the postgres implementation it leaves availability untouched.
func (m *MockBookStore) Update(ctx context.Context, book *domain.Book) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, book)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.Books[book.ID]
	if !ok {
		return store.ErrBookNotFound
	}
	c := *book
	c.Available = existing.Available
	m.Books[book.ID] = &c
	return nil
}

// Delete implements the BookStore interface.
func (m *MockBookStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Books[id]; !ok {
		return store.ErrBookNotFound
	}
	delete(m.Books, id)
	return nil
}

// CompareAndSwapAvailability implements the BookStore interface.
// The mutex makes the compare and the swap one atomic step, mirroring
// the conditional UPDATE in postgres.
func (m *MockBookStore) CompareAndSwapAvailability(
	ctx context.Context,
	id uuid.UUID,
	expected, newValue bool,
) error {
	if m.CompareAndSwapAvailabilityFn != nil {
		return m.CompareAndSwapAvailabilityFn(ctx, id, expected, newValue)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.Books[id]
	if !ok {
		return store.ErrBookNotFound
	}
	if book.Available != expected {
		return fmt.Errorf("%w: book availability changed concurrently", store.ErrConflict)
	}
	book.Available = newValue
	return nil
}

// WithTx implements the BookStore interface. The mock has no
// transactions; it returns itself.
func (m *MockBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return m
}
