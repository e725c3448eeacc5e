package providers

import (
	"github.com/samber/do/v2"

	"github.com/RHgrive/Study-Plus/internal/config"
	"github.com/RHgrive/Study-Plus/internal/logger"
	"github.com/RHgrive/Study-Plus/internal/state"
	"github.com/RHgrive/Study-Plus/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the Badger store under the data directory.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(cfg.Data.DBPath, log.Logger)
	if err != nil {
		return nil, err
	}

	return &StoreHandle{Store: db}, nil
}

// ProvidePreferencesCache provides the local preferences cache file.
func ProvidePreferencesCache(i do.Injector) (*state.FileCache, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return state.NewFileCache(cfg.Data.PrefsCachePath), nil
}
