package backup

import (
	"context"
	"log/slog"
	"time"

	"github.com/RHgrive/Study-Plus/internal/domain"
	"github.com/RHgrive/Study-Plus/internal/store"
)

// State is the part of the state container a backup touches: the current
// preferences, and a reload once an import has written to the store.
type State interface {
	Preferences() domain.Preferences
	UpdatePreferences(patch domain.PreferencesPatch) (domain.Preferences, error)
	Reload(ctx context.Context) error
}

// Service exports and imports backups.
type Service struct {
	repo   store.Repository
	state  State
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a Service.
func NewService(repo store.Repository, state State, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		state:  state,
		logger: logger,
		now:    time.Now,
	}
}
