// Package main provides the studyplus command-line study tracker.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/RHgrive/Study-Plus/internal/backup"
	"github.com/RHgrive/Study-Plus/internal/config"
	"github.com/RHgrive/Study-Plus/internal/di"
	"github.com/RHgrive/Study-Plus/internal/di/providers"
	"github.com/RHgrive/Study-Plus/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var (
	flags      config.Flags
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "studyplus",
	Short:         "Track study sessions, daily plans and progress",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// app holds the services a command needs. The caller must defer app.Close().
type app struct {
	injector *do.RootScope
	log      *logger.Logger
	store    *providers.StoreHandle
	state    *providers.StateHandle
	backup   *backup.Service
}

func newApp() (*app, error) {
	injector := di.NewContainer(flags)
	if err := di.Bootstrap(injector); err != nil {
		_ = injector.Shutdown()
		return nil, fmt.Errorf("initializing: %w", err)
	}

	return &app{
		injector: injector,
		log:      do.MustInvoke[*logger.Logger](injector),
		store:    do.MustInvoke[*providers.StoreHandle](injector),
		state:    do.MustInvoke[*providers.StateHandle](injector),
		backup:   do.MustInvoke[*backup.Service](injector),
	}, nil
}

// Close shuts the container down (state first, then the store) and closes the log file.
func (a *app) Close() {
	if err := a.injector.Shutdown(); err != nil {
		a.log.Error("Shutdown error", "error", err)
	}
	_ = a.log.Close()
}

// run opens the app, hands it to fn and closes it afterwards.
func run(fn func(ctx context.Context, a *app) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), a)
	}
}

// runArgs is run for commands that take positional arguments.
func runArgs(fn func(ctx context.Context, a *app, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), a, args)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.Env, "env", "", "Environment (development, production)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.LogFile, "log-file", "", "Write logs to this file, rotated by size")
	pf.StringVar(&flags.DataPath, "data-path", "", "Data directory (default ~/StudyPlus)")
	pf.StringVar(&flags.PrefsCachePath, "prefs-cache", "", "Preferences cache file (default <data>/prefs.json)")
	pf.StringVar(&flags.EnvFile, "env-file", ".env", "Path to .env file")
	pf.BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCSVCmd)
	rootCmd.AddCommand(footprintCmd)
	rootCmd.AddCommand(resetCmd)
}
