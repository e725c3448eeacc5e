package store

import (
	"context"

	"github.com/RHgrive/Study-Plus/internal/domain"
	"github.com/RHgrive/Study-Plus/internal/id"
)

// CreateLog assigns a fresh id to entry and stores it. Date is derived from Datetime.
func (s *Store) CreateLog(ctx context.Context, entry *domain.LogEntry) error {
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	return createWithFreshID(ctx, s.Logs, id.PrefixLog, &entry.ID, entry)
}

// GetLog retrieves a log entry by id.
func (s *Store) GetLog(ctx context.Context, logID string) (*domain.LogEntry, error) {
	return s.Logs.Get(ctx, logID)
}

// ListLogs returns every log entry.
func (s *Store) ListLogs(ctx context.Context) ([]domain.LogEntry, error) {
	return s.Logs.All(ctx)
}

// LogsByBook returns the entries recorded against bookID, including entries
// whose book has since been deleted.
func (s *Store) LogsByBook(ctx context.Context, bookID string) ([]domain.LogEntry, error) {
	return s.Logs.GetByIndex(ctx, IndexBookID, bookID)
}

// LogsByDateRange returns the entries whose Date lies in [from, to], both inclusive,
// ordered by date.
func (s *Store) LogsByDateRange(ctx context.Context, from, to string) ([]domain.LogEntry, error) {
	return s.Logs.GetByIndexRange(ctx, IndexDate, from, to)
}

// UpdateLog replaces a stored log entry. Date is recomputed from Datetime.
func (s *Store) UpdateLog(ctx context.Context, entry *domain.LogEntry) error {
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	return s.Logs.Update(ctx, entry.ID, entry)
}

// DeleteLog removes a log entry. Deleting an absent id is a no-op.
func (s *Store) DeleteLog(ctx context.Context, logID string) error {
	return s.Logs.Delete(ctx, logID)
}
