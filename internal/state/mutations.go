package state

import (
	"context"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/RHgrive/Study-Plus/internal/color"
	"github.com/RHgrive/Study-Plus/internal/domain"
	"github.com/RHgrive/Study-Plus/internal/events"
	"github.com/RHgrive/Study-Plus/internal/tags"
)

type loaded struct {
	books []domain.Book
	plans []domain.Plan
	logs  []domain.LogEntry
}

// fetchAll reads the three slices concurrently. They live in disjoint
// collections, so the reads are independent.
func (c *Container) fetchAll(ctx context.Context) (*loaded, error) {
	var data loaded
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		data.books, err = c.repo.ListBooks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.plans, err = c.repo.ListPlans(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.logs, err = c.repo.ListLogs(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// commit* replace a slice and emit its change event. Callers hold the slice's mutation lock.

func (c *Container) commitBooks(books []domain.Book) {
	if books == nil {
		books = []domain.Book{}
	}
	c.stateMu.Lock()
	c.books = books
	c.stateMu.Unlock()

	c.bus.Emit(events.BooksChanged{Books: slices.Clone(books)})
}

func (c *Container) commitPlans(plans []domain.Plan) {
	byDate := make(map[string]domain.Plan, len(plans))
	for _, p := range plans {
		byDate[p.Date] = p
	}

	c.stateMu.Lock()
	c.plansByDate = byDate
	c.stateMu.Unlock()

	c.bus.Emit(events.PlansChanged{PlansByDate: maps.Clone(byDate)})
}

func (c *Container) commitLogs(logs []domain.LogEntry) {
	if logs == nil {
		logs = []domain.LogEntry{}
	}
	slices.SortStableFunc(logs, func(a, b domain.LogEntry) int {
		return b.Datetime.Compare(a.Datetime)
	})

	c.stateMu.Lock()
	c.logs = logs
	c.stateMu.Unlock()

	c.bus.Emit(events.LogsChanged{Logs: slices.Clone(logs)})
}

// Loads

// LoadBooks re-reads the books slice and emits BooksChanged.
func (c *Container) LoadBooks(ctx context.Context) error {
	c.booksMu.Lock()
	defer c.booksMu.Unlock()
	return c.reloadBooks(ctx, "load books")
}

// LoadPlans re-reads the plans slice and emits PlansChanged.
func (c *Container) LoadPlans(ctx context.Context) error {
	c.plansMu.Lock()
	defer c.plansMu.Unlock()
	return c.reloadPlans(ctx, "load plans")
}

// LoadLogs re-reads the logs slice and emits LogsChanged.
func (c *Container) LoadLogs(ctx context.Context) error {
	c.logsMu.Lock()
	defer c.logsMu.Unlock()
	return c.reloadLogs(ctx, "load logs")
}

func (c *Container) reloadBooks(ctx context.Context, op string) error {
	books, err := c.repo.ListBooks(ctx)
	if err != nil {
		return c.fail(op, err)
	}
	c.commitBooks(books)
	return nil
}

func (c *Container) reloadPlans(ctx context.Context, op string) error {
	plans, err := c.repo.ListPlans(ctx)
	if err != nil {
		return c.fail(op, err)
	}
	c.commitPlans(plans)
	return nil
}

func (c *Container) reloadLogs(ctx context.Context, op string) error {
	logs, err := c.repo.ListLogs(ctx)
	if err != nil {
		return c.fail(op, err)
	}
	c.commitLogs(logs)
	return nil
}

// Books

// AddBook validates and stores book, then reloads the books slice.
// Returns the stored record with its assigned id and timestamps. A book
// without a colour gets its subject's colour.
func (c *Container) AddBook(ctx context.Context, book domain.Book) (*domain.Book, error) {
	book.Tags = tags.Normalize(book.Tags)
	if book.Color == "" {
		book.Color = color.ForSubject(book.Subject)
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}

	c.booksMu.Lock()
	defer c.booksMu.Unlock()

	if err := c.repo.CreateBook(ctx, &book); err != nil {
		return nil, c.fail("add book", err)
	}
	if err := c.reloadBooks(ctx, "add book"); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook validates and replaces book, then reloads the books slice.
func (c *Container) UpdateBook(ctx context.Context, book domain.Book) error {
	book.Tags = tags.Normalize(book.Tags)
	if err := book.Validate(); err != nil {
		return err
	}

	c.booksMu.Lock()
	defer c.booksMu.Unlock()

	if err := c.repo.UpdateBook(ctx, &book); err != nil {
		return c.fail("update book", err)
	}
	return c.reloadBooks(ctx, "update book")
}

// DeleteBook removes a book, then reloads the books slice.
// Logs referencing the book are kept.
func (c *Container) DeleteBook(ctx context.Context, id string) error {
	c.booksMu.Lock()
	defer c.booksMu.Unlock()

	if err := c.repo.DeleteBook(ctx, id); err != nil {
		return c.fail("delete book", err)
	}
	return c.reloadBooks(ctx, "delete book")
}

// Logs

// AddLog validates and stores entry, reloads the logs slice, then emits
// LogAdded with the stored entry.
func (c *Container) AddLog(ctx context.Context, entry domain.LogEntry) (*domain.LogEntry, error) {
	entry.Tags = tags.Normalize(entry.Tags)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	c.logsMu.Lock()
	defer c.logsMu.Unlock()

	if err := c.repo.CreateLog(ctx, &entry); err != nil {
		return nil, c.fail("add log", err)
	}
	if err := c.reloadLogs(ctx, "add log"); err != nil {
		return nil, err
	}

	c.bus.Emit(events.LogAdded{Entry: entry})
	return &entry, nil
}

// UpdateLog validates and replaces entry, then reloads the logs slice.
func (c *Container) UpdateLog(ctx context.Context, entry domain.LogEntry) error {
	entry.Tags = tags.Normalize(entry.Tags)
	if err := entry.Validate(); err != nil {
		return err
	}

	c.logsMu.Lock()
	defer c.logsMu.Unlock()

	if err := c.repo.UpdateLog(ctx, &entry); err != nil {
		return c.fail("update log", err)
	}
	return c.reloadLogs(ctx, "update log")
}

// DeleteLog removes a log entry, then reloads the logs slice.
// Deleting an unknown id succeeds.
func (c *Container) DeleteLog(ctx context.Context, id string) error {
	c.logsMu.Lock()
	defer c.logsMu.Unlock()

	if err := c.repo.DeleteLog(ctx, id); err != nil {
		return c.fail("delete log", err)
	}
	return c.reloadLogs(ctx, "delete log")
}

// Plans

// SavePlan upserts the plan for date with items, then reloads the plans slice.
func (c *Container) SavePlan(ctx context.Context, date string, items []domain.PlanItem) (*domain.Plan, error) {
	if items == nil {
		items = []domain.PlanItem{}
	}
	plan := domain.Plan{Date: date, Items: items, Frozen: false}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	c.plansMu.Lock()
	defer c.plansMu.Unlock()

	if err := c.repo.SavePlan(ctx, &plan); err != nil {
		return nil, c.fail("save plan", err)
	}
	if err := c.reloadPlans(ctx, "save plan"); err != nil {
		return nil, err
	}
	return &plan, nil
}

// DeletePlan removes the plan for date, then reloads the plans slice.
func (c *Container) DeletePlan(ctx context.Context, date string) error {
	c.plansMu.Lock()
	defer c.plansMu.Unlock()

	if err := c.repo.DeletePlan(ctx, date); err != nil {
		return c.fail("delete plan", err)
	}
	return c.reloadPlans(ctx, "delete plan")
}

// UI state. Never persisted.

// SetRoute records the current route and emits RouteChanged.
func (c *Container) SetRoute(route string) {
	c.uiMu.Lock()
	defer c.uiMu.Unlock()

	c.stateMu.Lock()
	c.ui.Route = route
	c.stateMu.Unlock()

	c.bus.Emit(events.RouteChanged{Route: route})
}

// SetLoading records the loading flag and emits LoadingChanged.
func (c *Container) SetLoading(loading bool) {
	c.uiMu.Lock()
	defer c.uiMu.Unlock()

	c.stateMu.Lock()
	c.ui.Loading = loading
	c.stateMu.Unlock()

	c.bus.Emit(events.LoadingChanged{Loading: loading})
}

// SetDateRange records the selected window and emits DateRangeChanged.
func (c *Container) SetDateRange(from, to string) {
	c.uiMu.Lock()
	defer c.uiMu.Unlock()

	c.stateMu.Lock()
	c.ui.DateRange = DateRange{From: from, To: to}
	c.stateMu.Unlock()

	c.bus.Emit(events.DateRangeChanged{From: from, To: to})
}

// SetActiveModal records the open modal ("" for none) and emits ModalChanged.
func (c *Container) SetActiveModal(modal string) {
	c.uiMu.Lock()
	defer c.uiMu.Unlock()

	c.stateMu.Lock()
	c.ui.ActiveModal = modal
	c.stateMu.Unlock()

	c.bus.Emit(events.ModalChanged{Modal: modal})
}

// SetToast records the toast message and emits ToastChanged.
func (c *Container) SetToast(message string) {
	c.uiMu.Lock()
	defer c.uiMu.Unlock()

	c.stateMu.Lock()
	c.ui.Toast = message
	c.stateMu.Unlock()

	c.bus.Emit(events.ToastChanged{Message: message})
}
