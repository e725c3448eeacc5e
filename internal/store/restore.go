package store

import (
	"context"
	"errors"

	"github.com/RHgrive/Study-Plus/internal/domain"
	"github.com/RHgrive/Study-Plus/internal/id"
)

// ImportBook stores a book read from a backup. The book keeps its id and
// timestamps; an empty or already taken id is replaced with a fresh one, so
// callers must use book.ID afterwards to remap references. Fresh ids are
// retried until a free one is found.
func (s *Store) ImportBook(ctx context.Context, book *domain.Book) error {
	if book.CreatedAt.IsZero() {
		book.InitTimestamps(s.now())
	}
	if book.UpdatedAt.IsZero() {
		book.UpdatedAt = book.CreatedAt
	}
	if book.Tags == nil {
		book.Tags = []string{}
	}

	return createKeepingID(ctx, s.Books, id.PrefixBook, &book.ID, book)
}

// ImportLog stores a log entry read from a backup, keeping its id when free.
func (s *Store) ImportLog(ctx context.Context, entry *domain.LogEntry) error {
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	return createKeepingID(ctx, s.Logs, id.PrefixLog, &entry.ID, entry)
}

func createKeepingID[T any](ctx context.Context, e *Entity[T], prefix string, recordID *string, record *T) error {
	if *recordID != "" {
		err := e.Create(ctx, *recordID, record)
		if !errors.Is(err, errIDTaken) {
			return err
		}
	}

	return createWithFreshID(ctx, e, prefix, recordID, record)
}
