package store

import (
	"context"

	"github.com/RHgrive/Study-Plus/internal/domain"
	"github.com/RHgrive/Study-Plus/internal/id"
)

// CreateBook assigns a fresh id and audit timestamps to book and stores it.
// Any id or timestamps set by the caller are replaced.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	book.InitTimestamps(s.now())
	if book.Tags == nil {
		book.Tags = []string{}
	}

	if err := createWithFreshID(ctx, s.Books, id.PrefixBook, &book.ID, book); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Debug("book created", "id", book.ID, "title", book.Title, "subject", book.Subject)
	}
	return nil
}

// GetBook retrieves a book by id.
func (s *Store) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.Books.Get(ctx, bookID)
}

// ListBooks returns every book.
func (s *Store) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.Books.All(ctx)
}

// BooksBySubject returns the books filed under subject.
func (s *Store) BooksBySubject(ctx context.Context, subject string) ([]domain.Book, error) {
	return s.Books.GetByIndex(ctx, IndexSubject, subject)
}

// UpdateBook replaces a stored book and refreshes UpdatedAt.
// CreatedAt stays whatever the repository assigned at creation.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	existing, err := s.Books.Get(ctx, book.ID)
	if err != nil {
		return err
	}

	book.CreatedAt = existing.CreatedAt
	book.Touch(s.now())
	if book.Tags == nil {
		book.Tags = []string{}
	}
	return s.Books.Update(ctx, book.ID, book)
}

// DeleteBook removes a book. Logs referencing it are left untouched.
func (s *Store) DeleteBook(ctx context.Context, bookID string) error {
	return s.Books.Delete(ctx, bookID)
}
