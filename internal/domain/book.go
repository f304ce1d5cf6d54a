package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Book-specific validation errors
var (
	// ErrBookIDEmpty is returned when a book ID is empty or nil.
	ErrBookIDEmpty = fmt.Errorf("%w: book ID cannot be empty", ErrInvalidID)

	// ErrBookTitleEmpty is returned when a book title is empty.
	ErrBookTitleEmpty = fmt.Errorf("%w: book title cannot be empty", ErrValidation)

	// ErrBookISBNEmpty is returned when a book ISBN is empty.
	ErrBookISBNEmpty = fmt.Errorf("%w: book ISBN cannot be empty", ErrValidation)
)

// Book represents a single physical copy in the catalog. Available is
// owned by the loan lifecycle: it is true exactly when no open loan
// references the book, and only loan transitions may flip it.
type Book struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn"`
	PublishedYear int       `json:"published_year,omitempty"`
	Available     bool      `json:"available"`
}

// NewBook creates a new Book with the given catalog data. New books
// enter circulation available for borrowing.
// Returns an error if validation fails.
func NewBook(title, author, isbn string, publishedYear int) (*Book, error) {
	book := &Book{
		ID:            uuid.New(),
		Title:         title,
		Author:        author,
		ISBN:          isbn,
		PublishedYear: publishedYear,
		Available:     true,
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid data.
// Returns an error if any field fails validation.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrBookIDEmpty
	}

	if b.Title == "" {
		return ErrBookTitleEmpty
	}

	if b.ISBN == "" {
		return ErrBookISBNEmpty
	}

	return nil
}
