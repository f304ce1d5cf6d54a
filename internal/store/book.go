package store

import (
	"context"
	"database/sql"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/google/uuid"
)

// BookStore defines the interface for book data persistence.
type BookStore interface {
	// Create saves a new book to the store.
	// Returns ErrISBNExists if the ISBN is already taken.
	// Returns validation errors from the domain Book if data is invalid.
	Create(ctx context.Context, book *domain.Book) error

	// GetByID retrieves a book by its unique ID.
	// Returns ErrBookNotFound if the book does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)

	// GetByISBN retrieves a book by its ISBN.
	// Returns ErrBookNotFound if the book does not exist.
	GetByISBN(ctx context.Context, isbn string) (*domain.Book, error)

	// List retrieves all books in the catalog ordered by title.
	List(ctx context.Context) ([]*domain.Book, error)

	// Update modifies an existing book's catalog fields (title, author,
	// ISBN, published year). It deliberately does NOT touch the
	// availability flag; that is owned by the loan lifecycle and only
	// changes through CompareAndSwapAvailability.
	// Returns ErrBookNotFound if the book does not exist.
	Update(ctx context.Context, book *domain.Book) error

	// Delete removes a book from the store by its ID.
	// Returns ErrBookNotFound if the book does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CompareAndSwapAvailability flips the book's availability flag from
	// expected to newValue in a single conditional write. This is the
	// only mutation path for availability, so two concurrent borrow
	// transitions for the same book cannot both observe it available.
	// Returns ErrBookNotFound if the book does not exist.
	// Returns ErrConflict if the book exists but its availability no
	// longer matches expected (another transition won the race).
	CompareAndSwapAvailability(ctx context.Context, id uuid.UUID, expected, newValue bool) error

	// WithTx returns a new BookStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller
	// (typically the loan lifecycle engine via a TxRunner).
	WithTx(tx *sql.Tx) BookStore
}
