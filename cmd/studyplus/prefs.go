package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RHgrive/Study-Plus/internal/domain"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change display preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show preferences",
	RunE: run(func(_ context.Context, a *app) error {
		return printPrefs(a.state.Preferences())
	}),
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change preferences; unset flags keep their value",
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch domain.PreferencesPatch
		f := cmd.Flags()
		if f.Changed("theme") {
			patch.Theme = &prefsFlags.theme
		}
		if f.Changed("accent") {
			patch.Accent = &prefsFlags.accent
		}
		if f.Changed("first-day") {
			patch.FirstDayOfWeek = &prefsFlags.firstDay
		}
		if f.Changed("time-format") {
			patch.TimeFormat = &prefsFlags.timeFormat
		}
		if f.Changed("display-unit") {
			patch.DisplayUnit = &prefsFlags.displayUnit
		}

		return run(func(_ context.Context, a *app) error {
			prefs, err := a.state.UpdatePreferences(patch)
			if err != nil {
				return err
			}
			return printPrefs(prefs)
		})(cmd, args)
	},
}

var prefsFlags struct {
	theme, accent, timeFormat, displayUnit string
	firstDay                               int
}

func printPrefs(p domain.Preferences) error {
	if jsonOutput {
		return printJSON(p)
	}
	w := newTable()
	fmt.Fprintf(w, "theme\t%s\n", p.Theme)
	fmt.Fprintf(w, "accent\t%s\n", p.Accent)
	fmt.Fprintf(w, "first-day\t%d\n", p.FirstDayOfWeek)
	fmt.Fprintf(w, "time-format\t%s\n", p.TimeFormat)
	fmt.Fprintf(w, "display-unit\t%s\n", p.DisplayUnit)
	return w.Flush()
}

func init() {
	f := prefsSetCmd.Flags()
	f.StringVar(&prefsFlags.theme, "theme", "", "light, dark or auto")
	f.StringVar(&prefsFlags.accent, "accent", "", "Accent colour as #rrggbb")
	f.IntVar(&prefsFlags.firstDay, "first-day", 1, "First day of the week, 0 (Sunday) to 6")
	f.StringVar(&prefsFlags.timeFormat, "time-format", "", "Time format, e.g. HH:mm")
	f.StringVar(&prefsFlags.displayUnit, "display-unit", "", "Display unit, e.g. page-first")

	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)
}
