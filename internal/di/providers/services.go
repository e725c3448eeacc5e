package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/RHgrive/Study-Plus/internal/backup"
	"github.com/RHgrive/Study-Plus/internal/logger"
	"github.com/RHgrive/Study-Plus/internal/state"
)

// initTimeout bounds the initial load of the state container.
const initTimeout = 30 * time.Second

// StateHandle wraps the state container with shutdown capability.
// The container depends on the store, so it is shut down first and its
// pending preference writes land before the store closes.
type StateHandle struct {
	*state.Container
}

// Shutdown implements do.Shutdownable.
func (h *StateHandle) Shutdown() error {
	return h.Close()
}

// ProvideState creates the state container and loads it from the store.
func ProvideState(i do.Injector) (*StateHandle, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cache := do.MustInvoke[*state.FileCache](i)
	log := do.MustInvoke[*logger.Logger](i)

	container := state.New(storeHandle.Store, cache, log.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err := container.Init(ctx); err != nil {
		return nil, err
	}

	return &StateHandle{Container: container}, nil
}

// ProvideBackupService provides backup import and export.
func ProvideBackupService(i do.Injector) (*backup.Service, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	stateHandle := do.MustInvoke[*StateHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return backup.NewService(storeHandle.Store, stateHandle.Container, log.Logger), nil
}
