package store

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
)

// Sentinel errors, re-exported so callers can match store failures without
// importing the errors package.
var (
	ErrNotFound         = domainerrors.ErrNotFound
	ErrDuplicateKey     = domainerrors.ErrDuplicateKey
	ErrStoreUnavailable = domainerrors.ErrStoreUnavailable
)

// errIDTaken marks a duplicate key caused by the record id itself rather
// than a unique index value. Only the former is cured by a new id.
var errIDTaken = errors.New("id taken")

// ErrStoreClosed is returned by every operation after Close.
var ErrStoreClosed = domainerrors.StoreUnavailable("store is closed", nil)

// wrapDBError maps Badger failures onto the domain taxonomy.
// Domain errors and context errors pass through unchanged; anything else
// coming out of Badger means durable storage could not be used.
func wrapDBError(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrStoreClosed.WithCause(err)
	}
	return domainerrors.StoreUnavailable("storage operation failed", err)
}
