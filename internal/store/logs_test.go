package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RHgrive/Study-Plus/internal/domain"
	"github.com/RHgrive/Study-Plus/internal/store"
)

func newLog(bookID string, from, to int) *domain.LogEntry {
	return &domain.LogEntry{
		Datetime: time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local),
		BookID:   bookID,
		FromPage: domain.IntPtr(from),
		ToPage:   domain.IntPtr(to),
		Minutes:  30,
	}
}

func newLogAt(bookID string, at time.Time) *domain.LogEntry {
	entry := newLog(bookID, 1, 5)
	entry.Datetime = at
	return entry
}

func TestCreateLog_DerivesDate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	entry := newLog("book_1", 10, 25)
	entry.Date = "1999-01-01"
	require.NoError(t, s.CreateLog(ctx, entry))
	assert.Regexp(t, `^log_\d{14}_\d{3}$`, entry.ID)

	got, err := s.GetLog(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", got.Date)
	assert.Equal(t, 15, got.Pages())
}

func TestUpdateLog_RecomputesDateAndIndexes(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	entry := newLog("book_1", 1, 5)
	require.NoError(t, s.CreateLog(ctx, entry))

	entry.Datetime = time.Date(2024, 5, 3, 21, 0, 0, 0, time.Local)
	entry.BookID = "book_2"
	require.NoError(t, s.UpdateLog(ctx, entry))

	got, err := s.GetLog(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-03", got.Date)

	old, err := s.LogsByDateRange(ctx, "2024-05-01", "2024-05-01")
	require.NoError(t, err)
	assert.Empty(t, old)

	byBook, err := s.LogsByBook(ctx, "book_1")
	require.NoError(t, err)
	assert.Empty(t, byBook)

	byBook, err = s.LogsByBook(ctx, "book_2")
	require.NoError(t, err)
	assert.Len(t, byBook, 1)
}

func TestUpdateLog_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	entry := newLog("book_1", 1, 5)
	entry.ID = "log_missing"
	err := s.UpdateLog(context.Background(), entry)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogsByDateRange_Inclusive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	for _, day := range []int{1, 2, 3, 4, 5} {
		at := time.Date(2024, 5, day, 12, 0, 0, 0, time.Local)
		require.NoError(t, s.CreateLog(ctx, newLogAt("book_1", at)))
	}
	// Two entries on the same day.
	require.NoError(t, s.CreateLog(ctx, newLogAt("book_1", time.Date(2024, 5, 3, 23, 59, 0, 0, time.Local))))

	logs, err := s.LogsByDateRange(ctx, "2024-05-02", "2024-05-04")
	require.NoError(t, err)
	require.Len(t, logs, 4)
	assert.Equal(t, "2024-05-02", logs[0].Date)
	assert.Equal(t, "2024-05-04", logs[3].Date)

	logs, err = s.LogsByDateRange(ctx, "2024-05-05", "2024-05-01")
	require.NoError(t, err)
	assert.Empty(t, logs)

	logs, err = s.LogsByDateRange(ctx, "", "2024-05-02")
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestDeleteLog(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	entry := newLog("book_1", 1, 5)
	require.NoError(t, s.CreateLog(ctx, entry))

	require.NoError(t, s.DeleteLog(ctx, entry.ID))
	require.NoError(t, s.DeleteLog(ctx, entry.ID))

	_, err := s.GetLog(ctx, entry.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	logs, err := s.LogsByDateRange(ctx, "2024-05-01", "2024-05-01")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestListLogs_ManyEntries(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	const n = 25
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	for i := range n {
		require.NoError(t, s.CreateLog(ctx, newLogAt("book_1", base.Add(time.Duration(i)*time.Minute))))
	}

	logs, err := s.ListLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, n)
}
