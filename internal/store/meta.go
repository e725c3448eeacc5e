package store

import (
	"context"
	"errors"

	"github.com/RHgrive/Study-Plus/internal/domain"
)

// SetMeta stores value under key, replacing any previous value.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	record := &domain.Meta{Key: key, Value: value}

	err := s.Meta.Update(ctx, key, record)
	if isNotFound(err) {
		return s.Meta.Create(ctx, key, record)
	}
	return err
}

// GetMeta returns the value stored under key, or ErrNotFound.
func (s *Store) GetMeta(ctx context.Context, key string) (string, error) {
	record, err := s.Meta.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return record.Value, nil
}

func isNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}
