package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RHgrive/Study-Plus/internal/id"
)

const (
	// maxIDAttempts bounds the retries of a create whose generated id is taken.
	maxIDAttempts = 64

	// attemptsPerSecond is how many suffixes are tried under one timestamp
	// before moving it a second forward. One second only has 1000 suffixes.
	attemptsPerSecond = 16
)

// createWithFreshID stores record under a newly generated id, retrying with
// another id while the generated one is already taken. *recordID holds the
// id the record was stored under.
func createWithFreshID[T any](ctx context.Context, e *Entity[T], prefix string, recordID *string, record *T) error {
	now := e.store.now()

	var err error
	for attempt := range maxIDAttempts {
		at := now.Add(time.Duration(attempt/attemptsPerSecond) * time.Second)

		fresh, genErr := id.GenerateAt(prefix, at)
		if genErr != nil {
			return fmt.Errorf("generate %s id: %w", e.Kind(), genErr)
		}
		*recordID = fresh

		err = e.Create(ctx, fresh, record)
		if !errors.Is(err, errIDTaken) {
			return err
		}
	}

	if e.store.logger != nil {
		e.store.logger.Warn("no free id found", "kind", e.Kind(), "attempts", maxIDAttempts)
	}
	return err
}
