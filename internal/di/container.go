// Package di wires the application's services together with samber/do.
package di

import (
	"github.com/samber/do/v2"

	"github.com/RHgrive/Study-Plus/internal/backup"
	"github.com/RHgrive/Study-Plus/internal/config"
	"github.com/RHgrive/Study-Plus/internal/di/providers"
	"github.com/RHgrive/Study-Plus/internal/logger"
)

// NewContainer creates and configures the DI container with all providers.
// flags carries the command-line overrides for the configuration.
func NewContainer(flags config.Flags) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, flags)
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvidePreferencesCache)

	// State and services
	do.Provide(injector, providers.ProvideState)
	do.Provide(injector, providers.ProvideBackupService)

	return injector
}

// Bootstrap opens the store and loads the state container.
// Any failure here leaves the application unusable.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StateHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*backup.Service](injector); err != nil {
		return err
	}
	return nil
}
