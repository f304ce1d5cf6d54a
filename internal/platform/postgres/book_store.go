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

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the
// BookStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// WithTx implements store.BookStore.WithTx
func (s *PostgresBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return &PostgresBookStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.BookStore.Create
func (s *PostgresBookStore) Create(ctx context.Context, book *domain.Book) error {
	if err := book.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO books (id, title, author, isbn, published_year, available)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.ISBN,
		book.PublishedYear,
		book.Available,
	)
	if err != nil {
		if IsUniqueViolation(err, "books_isbn_key") {
			return fmt.Errorf("%w: %v", store.ErrISBNExists, err)
		}
		return MapError(err)
	}

	return nil
}

// GetByID implements store.BookStore.GetByID
func (s *PostgresBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	query := `
		SELECT id, title, author, isbn, published_year, available
		FROM books
		WHERE id = $1
	`

	book, err := scanBook(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrBookNotFound, err)
		}
		return nil, MapError(err)
	}

	return book, nil
}

// GetByISBN implements store.BookStore.GetByISBN
func (s *PostgresBookStore) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	query := `
		SELECT id, title, author, isbn, published_year, available
		FROM books
		WHERE isbn = $1
	`

	book, err := scanBook(s.db.QueryRowContext(ctx, query, isbn))
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrBookNotFound, err)
		}
		return nil, MapError(err)
	}

	return book, nil
}

// List implements store.BookStore.List
func (s *PostgresBookStore) List(ctx context.Context) ([]*domain.Book, error) {
	query := `
		SELECT id, title, author, isbn, published_year, available
		FROM books
		ORDER BY title, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, MapError(err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return books, nil
}

// Update implements store.BookStore.Update
// It writes the catalog fields only; availability is owned by the loan
// lifecycle and changes exclusively through CompareAndSwapAvailability.
func (s *PostgresBookStore) Update(ctx context.Context, book *domain.Book) error {
	if err := book.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE books
		SET title = $2, author = $3, isbn = $4, published_year = $5
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.ISBN,
		book.PublishedYear,
	)
	if err != nil {
		if IsUniqueViolation(err, "books_isbn_key") {
			return fmt.Errorf("%w: %v", store.ErrISBNExists, err)
		}
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "book"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrBookNotFound, err)
	}

	return nil
}

// Delete implements store.BookStore.Delete
func (s *PostgresBookStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM books WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "book"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrBookNotFound, err)
	}

	return nil
}

// CompareAndSwapAvailability implements store.BookStore.CompareAndSwapAvailability
// The WHERE clause makes the flip conditional on the expected current
// value, so of two racing transitions only one can affect a row.
func (s *PostgresBookStore) CompareAndSwapAvailability(
	ctx context.Context,
	id uuid.UUID,
	expected, newValue bool,
) error {
	query := `
		UPDATE books
		SET available = $3
		WHERE id = $1 AND available = $2
	`

	result, err := s.db.ExecContext(ctx, query, id, expected, newValue)
	if err != nil {
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 1 {
		return nil
	}

	// Nothing matched: either the book is gone or its availability
	// moved underneath us. Distinguish the two for the caller.
	var exists bool
	existsQuery := `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`
	if err := s.db.QueryRowContext(ctx, existsQuery, id).Scan(&exists); err != nil {
		return MapError(err)
	}
	if !exists {
		return store.ErrBookNotFound
	}

	s.logger.DebugContext(ctx, "availability swap lost race",
		slog.String("book_id", id.String()),
		slog.Bool("expected", expected))
	return fmt.Errorf("%w: book availability changed concurrently", store.ErrConflict)
}

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var book domain.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.PublishedYear,
		&book.Available,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}
