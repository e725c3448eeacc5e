package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RHgrive/Study-Plus/internal/domain"
	"github.com/RHgrive/Study-Plus/internal/store"
)

func TestEntity_ListSkipsIndexKeys(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	for _, subject := range []string{"math", "math", "english"} {
		require.NoError(t, s.CreateBook(ctx, &domain.Book{Title: "t", Subject: subject, Difficulty: 1}))
	}

	count := 0
	for book, err := range s.Books.List(ctx) {
		require.NoError(t, err)
		assert.NotEmpty(t, book.ID)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestEntity_ListStopsEarly(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	for range 5 {
		require.NoError(t, s.CreateBook(ctx, &domain.Book{Title: "t", Subject: "math", Difficulty: 1}))
	}

	seen := 0
	for _, err := range s.Books.List(ctx) {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestEntity_UnknownIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.Books.GetByIndex(context.Background(), "isbn", "123")
	require.Error(t, err)
}

func TestEntity_DeleteRemovesIndexKeys(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	book := &domain.Book{Title: "t", Subject: "math", Difficulty: 1}
	require.NoError(t, s.CreateBook(ctx, book))
	require.NoError(t, s.Books.Delete(ctx, book.ID))

	books, err := s.Books.GetByIndex(ctx, store.IndexSubject, "math")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestEntity_Kind(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, store.KindLogs, s.Logs.Kind())
	assert.Equal(t, "log:", store.KindLogs.Prefix())
}
