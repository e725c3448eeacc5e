// Package providers contains dependency injection providers for Study-Plus.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/RHgrive/Study-Plus/internal/config"
	"github.com/RHgrive/Study-Plus/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	flags := do.MustInvoke[config.Flags](i)
	return config.LoadConfig(flags)
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	logCfg := logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	}
	if cfg.Logger.File != "" {
		logCfg.File = &logger.FileConfig{Path: cfg.Logger.File, Compress: true}
	}
	log := logger.New(logCfg)

	log.Debug("Starting Study-Plus",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
	)

	return log, nil
}
