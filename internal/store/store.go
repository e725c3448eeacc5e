package store

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/RHgrive/Study-Plus/internal/domain"
	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
)

// SchemaVersion is the version of the key layout written by this build.
// Opening a store written by a newer build fails with ErrStoreUnavailable.
const SchemaVersion = 1

// Store wraps a Badger database instance holding the five record collections.
// The handle is opened once per process and shared; it is safe for concurrent use.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
	closed atomic.Bool

	// now is swappable so tests can pin repository-assigned timestamps.
	now func() time.Time

	Books  *Entity[domain.Book]
	Plans  *Entity[domain.Plan]
	Logs   *Entity[domain.LogEntry]
	Images *Entity[domain.Image]
	Meta   *Entity[domain.Meta]
}

// New opens (or creates) the store at path.
// Opening an existing store is idempotent; the schema version is checked on every open.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, domainerrors.StoreUnavailable("failed to open badger db", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
	store.initEntities()

	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
// Every operation after Close fails with ErrStoreUnavailable.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

func (s *Store) checkOpen(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrStoreClosed
	}
	return nil
}

// initEntities wires each collection to its key prefix, indexes and write hooks.
func (s *Store) initEntities() {
	s.Books = NewEntity[domain.Book](s, KindBooks).
		WithIndex(IndexSubject, func(b *domain.Book) []string {
			return []string{b.Subject}
		}).
		WithIndex(IndexCreatedAt, func(b *domain.Book) []string {
			return []string{sortableTime(b.CreatedAt)}
		})

	// Date is the natural key of a plan.
	s.Plans = NewEntity[domain.Plan](s, KindPlans).
		WithUniqueIndex(IndexDate, func(p *domain.Plan) []string {
			return []string{p.Date}
		})

	// Date is recomputed from Datetime on every write, whatever the caller supplied.
	s.Logs = NewEntity[domain.LogEntry](s, KindLogs).
		WithNormalize(func(l *domain.LogEntry) {
			l.DeriveDate()
		}).
		WithIndex(IndexDatetime, func(l *domain.LogEntry) []string {
			return []string{sortableTime(l.Datetime)}
		}).
		WithIndex(IndexBookID, func(l *domain.LogEntry) []string {
			if l.BookID == "" {
				return nil
			}
			return []string{l.BookID}
		}).
		WithIndex(IndexDate, func(l *domain.LogEntry) []string {
			return []string{l.Date}
		})

	s.Images = NewEntity[domain.Image](s, KindImages)
	s.Meta = NewEntity[domain.Meta](s, KindMeta)
}

// ensureSchema records the schema version and install id on first open and
// rejects stores written by a newer layout.
func (s *Store) ensureSchema(ctx context.Context) error {
	raw, err := s.GetMeta(ctx, domain.MetaSchemaVersion)
	switch {
	case err == nil:
		version, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return domainerrors.StoreUnavailable("unreadable schema version "+strconv.Quote(raw), convErr)
		}
		if version > SchemaVersion {
			return domainerrors.StoreUnavailable(
				"store schema v"+raw+" is newer than supported v"+strconv.Itoa(SchemaVersion), nil)
		}
	case domainerrors.Is(err, ErrNotFound):
		if err := s.SetMeta(ctx, domain.MetaSchemaVersion, strconv.Itoa(SchemaVersion)); err != nil {
			return err
		}
	default:
		return err
	}

	if _, err := s.GetMeta(ctx, domain.MetaInstallID); domainerrors.Is(err, ErrNotFound) {
		return s.SetMeta(ctx, domain.MetaInstallID, uuid.New().String())
	} else if err != nil {
		return err
	}
	return nil
}

// Clear wipes one collection. Clearing meta also drops the schema record,
// which is rewritten immediately so the store stays versioned.
func (s *Store) Clear(ctx context.Context, kind Kind) error {
	var err error
	switch kind {
	case KindBooks:
		err = s.Books.Clear(ctx)
	case KindPlans:
		err = s.Plans.Clear(ctx)
	case KindLogs:
		err = s.Logs.Clear(ctx)
	case KindImages:
		err = s.Images.Clear(ctx)
	case KindMeta:
		if err = s.Meta.Clear(ctx); err == nil {
			err = s.ensureSchema(ctx)
		}
	default:
		return domainerrors.Internalf("unknown collection %q", kind)
	}
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("Collection cleared", "kind", kind)
	}
	return nil
}

// ClearAll wipes every collection. Used only by the destructive reset and
// overwrite-import paths. Not transactional: a failure part-way leaves the
// earlier collections cleared and is returned to the caller.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, kind := range AllKinds {
		if err := s.Clear(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}
