package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/bookstacks/circulation/internal/domain"
	"github.com/bookstacks/circulation/internal/platform/logger"
	"github.com/bookstacks/circulation/internal/store"
	"github.com/google/uuid"
)

// BookService provides catalog operations. It never touches a book's
// availability flag; that belongs to the loan lifecycle.
type BookService interface {
	// CreateBook adds a new book to the catalog, available for
	// borrowing. Returns store.ErrISBNExists if the ISBN is taken.
	CreateBook(ctx context.Context, title, author, isbn string, publishedYear int) (*domain.Book, error)

	// GetBook retrieves a book by ID.
	GetBook(ctx context.Context, bookID uuid.UUID) (*domain.Book, error)

	// GetBookByISBN retrieves a book by ISBN.
	GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error)

	// ListBooks retrieves the whole catalog ordered by title.
	ListBooks(ctx context.Context) ([]*domain.Book, error)

	// UpdateBook modifies a book's catalog fields.
	UpdateBook(ctx context.Context, book *domain.Book) (*domain.Book, error)

	// DeleteBook removes a book from the catalog. Returns ErrBookOnLoan
	// if the book currently has an open loan.
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
}

// bookServiceImpl implements the BookService interface.
type bookServiceImpl struct {
	books  store.BookStore
	loans  store.LoanStore
	tx     store.TxRunner
	logger *slog.Logger
}

// NewBookService creates a new BookService.
func NewBookService(
	books store.BookStore,
	loans store.LoanStore,
	tx store.TxRunner,
	logger *slog.Logger,
) BookService {
	if books == nil {
		panic("books store cannot be nil")
	}
	if loans == nil {
		panic("loans store cannot be nil")
	}
	if tx == nil {
		panic("tx runner cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &bookServiceImpl{
		books:  books,
		loans:  loans,
		tx:     tx,
		logger: logger.With(slog.String("component", "book_service")),
	}
}

// Ensure bookServiceImpl implements BookService
var _ BookService = (*bookServiceImpl)(nil)

// CreateBook implements BookService.CreateBook.
func (s *bookServiceImpl) CreateBook(
	ctx context.Context,
	title, author, isbn string,
	publishedYear int,
) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	book, err := domain.NewBook(title, author, isbn, publishedYear)
	if err != nil {
		return nil, domain.NewValidationError("book", err.Error(), err)
	}

	if err := s.books.Create(ctx, book); err != nil {
		log.Error("failed to create book",
			slog.String("isbn", isbn),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("book created",
		slog.String("book_id", book.ID.String()),
		slog.String("isbn", book.ISBN))
	return book, nil
}

// GetBook implements BookService.GetBook.
func (s *bookServiceImpl) GetBook(ctx context.Context, bookID uuid.UUID) (*domain.Book, error) {
	return s.books.GetByID(ctx, bookID)
}

// GetBookByISBN implements BookService.GetBookByISBN.
func (s *bookServiceImpl) GetBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return s.books.GetByISBN(ctx, isbn)
}

// ListBooks implements BookService.ListBooks.
func (s *bookServiceImpl) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.books.List(ctx)
}

// UpdateBook implements BookService.UpdateBook.
func (s *bookServiceImpl) UpdateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		return nil, domain.NewValidationError("book", err.Error(), err)
	}

	if err := s.books.Update(ctx, book); err != nil {
		log.Error("failed to update book",
			slog.String("book_id", book.ID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	return book, nil
}

// DeleteBook implements BookService.DeleteBook.
// The open-loan check and the delete run in one transaction so a
// concurrent borrow cannot slip between them.
func (s *bookServiceImpl) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		books := s.books.WithTx(tx)
		loans := s.loans.WithTx(tx)

		_, err := loans.GetOpenByBook(ctx, bookID)
		switch {
		case err == nil:
			return ErrBookOnLoan
		case errors.Is(err, store.ErrLoanNotFound):
			// No open loan; safe to remove.
		default:
			return err
		}

		return books.Delete(ctx, bookID)
	})
	if err != nil {
		if errors.Is(err, ErrBookOnLoan) || store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to delete book",
			slog.String("book_id", bookID.String()),
			slog.String("error", err.Error()))
		return err
	}

	log.Info("book deleted", slog.String("book_id", bookID.String()))
	return nil
}
