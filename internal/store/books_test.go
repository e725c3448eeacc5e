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

func TestCreateBook_AssignsIDAndTimestamps(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	book := &domain.Book{
		ID:         "caller-chosen",
		Title:      "Vintage",
		Subject:    "english",
		Difficulty: 2,
		TotalPages: domain.IntPtr(400),
	}
	require.NoError(t, s.CreateBook(ctx, book))

	assert.Regexp(t, `^book_\d{14}_\d{3}$`, book.ID)
	assert.False(t, book.CreatedAt.IsZero())
	assert.Equal(t, book.CreatedAt, book.UpdatedAt)
	assert.NotNil(t, book.Tags)

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vintage", got.Title)
	assert.Equal(t, 400, *got.TotalPages)
	assert.Nil(t, got.TotalQuestions)
}

func TestGetBook_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetBook(context.Background(), "book_missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateBook_PreservesCreatedAt(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	book := &domain.Book{Title: "Vintage", Subject: "english", Difficulty: 2}
	require.NoError(t, s.CreateBook(ctx, book))
	createdAt := book.CreatedAt

	time.Sleep(2 * time.Millisecond)

	update := *book
	update.Title = "Vintage 3rd edition"
	update.CreatedAt = time.Time{}
	require.NoError(t, s.UpdateBook(ctx, &update))

	got, err := s.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vintage 3rd edition", got.Title)
	assert.True(t, got.CreatedAt.Equal(createdAt))
	assert.True(t, got.UpdatedAt.After(createdAt))
}

func TestUpdateBook_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.UpdateBook(context.Background(), &domain.Book{ID: "book_missing", Title: "x", Subject: "y", Difficulty: 1})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestBooksBySubject_FollowsUpdates(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	math1 := &domain.Book{Title: "Focus Gold", Subject: "math", Difficulty: 4}
	math2 := &domain.Book{Title: "Blue Chart", Subject: "math", Difficulty: 3}
	eng := &domain.Book{Title: "Next Stage", Subject: "english", Difficulty: 2}
	for _, b := range []*domain.Book{math1, math2, eng} {
		require.NoError(t, s.CreateBook(ctx, b))
	}

	books, err := s.BooksBySubject(ctx, "math")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	math2.Subject = "physics"
	require.NoError(t, s.UpdateBook(ctx, math2))

	books, err = s.BooksBySubject(ctx, "math")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, math1.ID, books[0].ID)

	books, err = s.BooksBySubject(ctx, "chemistry")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestDeleteBook_IdempotentAndKeepsLogs(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	book := &domain.Book{Title: "Vintage", Subject: "english", Difficulty: 2}
	require.NoError(t, s.CreateBook(ctx, book))
	require.NoError(t, s.CreateLog(ctx, newLog(book.ID, 10, 20)))

	require.NoError(t, s.DeleteBook(ctx, book.ID))
	require.NoError(t, s.DeleteBook(ctx, book.ID))

	_, err := s.GetBook(ctx, book.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	logs, err := s.LogsByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
