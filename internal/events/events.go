// Package events defines the change notifications published by the state
// container and the bus that delivers them.
package events

import (
	"time"

	"github.com/RHgrive/Study-Plus/internal/domain"
)

// Kind identifies an event. The set is closed: every Kind has exactly one
// payload type below.
type Kind string

const (
	// KindInitialized is emitted once Init has loaded every slice.
	KindInitialized Kind = "store.initialized"

	// KindBooksChanged carries the reloaded books slice.
	KindBooksChanged Kind = "books.changed"
	// KindPlansChanged carries the reloaded plans, keyed by date.
	KindPlansChanged Kind = "plans.changed"
	// KindLogsChanged carries the reloaded logs, newest first.
	KindLogsChanged Kind = "logs.changed"
	// KindLogAdded carries the entry just stored by AddLog.
	// Emitted after the matching KindLogsChanged.
	KindLogAdded Kind = "log.added"

	KindPreferencesChanged Kind = "preferences.changed"

	// UI state
	KindRouteChanged     Kind = "ui.route_changed"
	KindLoadingChanged   Kind = "ui.loading_changed"
	KindDateRangeChanged Kind = "ui.range_changed"
	KindModalChanged     Kind = "ui.modal_changed"
	KindToastChanged     Kind = "ui.toast_changed"
)

// Event is implemented by every payload type in this package and nothing else.
type Event interface {
	Kind() Kind
	sealed()
}

// Initialized is the payload of KindInitialized.
type Initialized struct {
	At time.Time
}

// BooksChanged is the payload of KindBooksChanged.
type BooksChanged struct {
	Books []domain.Book
}

// PlansChanged is the payload of KindPlansChanged.
type PlansChanged struct {
	PlansByDate map[string]domain.Plan
}

// LogsChanged is the payload of KindLogsChanged.
type LogsChanged struct {
	Logs []domain.LogEntry
}

// LogAdded is the payload of KindLogAdded.
type LogAdded struct {
	Entry domain.LogEntry
}

// PreferencesChanged is the payload of KindPreferencesChanged.
type PreferencesChanged struct {
	Preferences domain.Preferences
}

// RouteChanged is the payload of KindRouteChanged.
type RouteChanged struct {
	Route string
}

// LoadingChanged is the payload of KindLoadingChanged.
type LoadingChanged struct {
	Loading bool
}

// DateRangeChanged is the payload of KindDateRangeChanged.
// Bounds are calendar days; an empty bound is open.
type DateRangeChanged struct {
	From string
	To   string
}

// ModalChanged is the payload of KindModalChanged. An empty Modal means none is open.
type ModalChanged struct {
	Modal string
}

// ToastChanged is the payload of KindToastChanged.
type ToastChanged struct {
	Message string
}

func (Initialized) Kind() Kind        { return KindInitialized }
func (BooksChanged) Kind() Kind       { return KindBooksChanged }
func (PlansChanged) Kind() Kind       { return KindPlansChanged }
func (LogsChanged) Kind() Kind        { return KindLogsChanged }
func (LogAdded) Kind() Kind           { return KindLogAdded }
func (PreferencesChanged) Kind() Kind { return KindPreferencesChanged }
func (RouteChanged) Kind() Kind       { return KindRouteChanged }
func (LoadingChanged) Kind() Kind     { return KindLoadingChanged }
func (DateRangeChanged) Kind() Kind   { return KindDateRangeChanged }
func (ModalChanged) Kind() Kind       { return KindModalChanged }
func (ToastChanged) Kind() Kind       { return KindToastChanged }

func (Initialized) sealed()        {}
func (BooksChanged) sealed()       {}
func (PlansChanged) sealed()       {}
func (LogsChanged) sealed()        {}
func (LogAdded) sealed()           {}
func (PreferencesChanged) sealed() {}
func (RouteChanged) sealed()       {}
func (LoadingChanged) sealed()     {}
func (DateRangeChanged) sealed()   {}
func (ModalChanged) sealed()       {}
func (ToastChanged) sealed()       {}
