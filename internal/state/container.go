// Package state holds the in-memory copy of the study data and keeps it in
// step with the store.
//
// Every data mutation runs validate, write, reload, replace, emit. A
// mutation's effect becomes visible only after its durable write completed and
// the whole slice was re-read from the store; the in-memory slice is never
// patched in place. Mutations touching the same slice are serialised so their
// events are delivered in the order the writes were applied; mutations on
// different slices may interleave.
package state

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/RHgrive/Study-Plus/internal/domain"
	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
	"github.com/RHgrive/Study-Plus/internal/events"
	"github.com/RHgrive/Study-Plus/internal/store"
)

// Container is the single source of truth for books, plans, logs,
// preferences and UI state. Create one with New and share it; there is no
// package-level instance.
type Container struct {
	repo   store.Repository
	cache  PreferencesCache
	bus    *events.Bus
	logger *slog.Logger
	now    func() time.Time

	// Mutation locks, one per slice. Held across write, reload and emit.
	booksMu sync.Mutex
	plansMu sync.Mutex
	logsMu  sync.Mutex
	prefsMu sync.Mutex
	uiMu    sync.Mutex

	// stateMu guards the fields below for readers.
	stateMu     sync.RWMutex
	books       []domain.Book
	plansByDate map[string]domain.Plan
	logs        []domain.LogEntry
	prefs       domain.Preferences
	ui          UI

	// Durable preferences writes. prefsClosed is guarded by prefsMu and
	// stops new writes from being queued once Close started waiting.
	prefsClosed  bool
	persistMu    sync.Mutex
	persistWG    sync.WaitGroup
	prefsSeq     uint64
	persistedSeq uint64
}

// New creates a Container over repo. cache may be nil.
// The container starts empty with default preferences; call Init to load it.
func New(repo store.Repository, cache PreferencesCache, logger *slog.Logger) *Container {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Container{
		repo:        repo,
		cache:       cache,
		bus:         events.NewBus(logger),
		logger:      logger,
		now:         time.Now,
		books:       []domain.Book{},
		plansByDate: map[string]domain.Plan{},
		logs:        []domain.LogEntry{},
		prefs:       domain.DefaultPreferences(),
		ui:          UI{Route: DefaultRoute},
	}
}

// Events returns the bus change notifications are published on.
func (c *Container) Events() *events.Bus {
	return c.bus
}

// Subscribe registers handler for kind. See events.On for a typed variant.
// Handlers run while the emitting slice's mutation lock is held, so a handler
// must not synchronously mutate that same slice.
func (c *Container) Subscribe(kind events.Kind, handler events.Handler) (unsubscribe func()) {
	return c.bus.Subscribe(kind, handler)
}

// Init loads the persisted preferences, then all three data slices, and emits
// Initialized. The slices are fetched concurrently and committed together:
// on any store failure nothing is replaced and a StoreUnavailable error is
// returned.
func (c *Container) Init(ctx context.Context) error {
	if err := c.loadPreferences(ctx); err != nil {
		return c.initFailed(err)
	}

	c.booksMu.Lock()
	defer c.booksMu.Unlock()
	c.plansMu.Lock()
	defer c.plansMu.Unlock()
	c.logsMu.Lock()
	defer c.logsMu.Unlock()

	data, err := c.fetchAll(ctx)
	if err != nil {
		return c.initFailed(err)
	}

	c.commitBooks(data.books)
	c.commitPlans(data.plans)
	c.commitLogs(data.logs)

	c.logger.Info("state initialized",
		"books", len(data.books),
		"plans", len(data.plans),
		"logs", len(data.logs))

	c.bus.Emit(events.Initialized{At: c.now()})
	return nil
}

// Reload re-reads all three data slices, e.g. after an import.
func (c *Container) Reload(ctx context.Context) error {
	if err := c.LoadBooks(ctx); err != nil {
		return err
	}
	if err := c.LoadPlans(ctx); err != nil {
		return err
	}
	return c.LoadLogs(ctx)
}

func (c *Container) initFailed(err error) error {
	c.logger.Error("failed to initialize state", "error", err)
	if domainerrors.Is(err, domainerrors.ErrStoreUnavailable) {
		return err
	}
	return domainerrors.StoreUnavailable("failed to initialize state", err)
}

// fail logs a failed mutation and returns it wrapped with op.
func (c *Container) fail(op string, err error) error {
	c.logger.Error("state mutation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

// Getters. Each returns a copy; mutating it does not affect the container.

// Books returns the books slice.
func (c *Container) Books() []domain.Book {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return slices.Clone(c.books)
}

// Book resolves a book id. Absence is reported, not an error.
func (c *Container) Book(id string) (domain.Book, bool) {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	for _, b := range c.books {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Book{}, false
}

// PlansByDate returns every plan keyed by its date.
func (c *Container) PlansByDate() map[string]domain.Plan {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return maps.Clone(c.plansByDate)
}

// Plan returns the plan for date.
func (c *Container) Plan(date string) (domain.Plan, bool) {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	p, ok := c.plansByDate[date]
	return p, ok
}

// Logs returns the logs, newest first.
func (c *Container) Logs() []domain.LogEntry {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return slices.Clone(c.logs)
}

// Preferences returns the current preferences.
func (c *Container) Preferences() domain.Preferences {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.prefs
}

// UI returns the current UI state.
func (c *Container) UI() UI {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.ui
}

// Snapshot returns a consistent copy of the data slices for analytics.
func (c *Container) Snapshot() domain.Snapshot {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return domain.Snapshot{
		Books:       slices.Clone(c.books),
		PlansByDate: maps.Clone(c.plansByDate),
		Logs:        slices.Clone(c.logs),
		Preferences: c.prefs,
	}
}
