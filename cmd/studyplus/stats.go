package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/RHgrive/Study-Plus/internal/analytics"
	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summaries of study effort",
}

var statsTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Totals for today and the plan achievement rate",
	RunE: run(func(_ context.Context, a *app) error {
		now := time.Now()
		snap := a.state.Snapshot()
		today := analytics.TodayStats(snap, now)
		streak := analytics.Streak(snap, now)

		if jsonOutput {
			return printJSON(struct {
				analytics.TodaySummary
				Streak analytics.StreakSummary `json:"streak"`
			}{today, streak})
		}
		fmt.Printf("Today: %d min, %d pages, %d questions, %d%% of plan\n",
			today.Minutes, today.Pages, today.Questions, today.AchievementRate)
		fmt.Printf("Streak: %d days (longest %d)\n", streak.Current, streak.Longest)
		return nil
	}),
}

var statsWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Totals for the current week, Monday to Sunday",
	RunE: run(func(_ context.Context, a *app) error {
		week := analytics.WeekStats(a.state.Snapshot(), time.Now())
		if jsonOutput {
			return printJSON(week)
		}
		fmt.Printf("This week: %d min, %d pages, %d questions\n", week.Minutes, week.Pages, week.Questions)
		return nil
	}),
}

var statsDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Per-day totals for the last N days, oldest first",
	RunE: run(func(_ context.Context, a *app) error {
		days := analytics.DailyStats(a.state.Snapshot(), statsFlags.days, time.Now())
		if jsonOutput {
			return printJSON(days)
		}

		w := newTable()
		fmt.Fprintln(w, "DATE\tMINUTES\tPAGES\tQUESTIONS\tPLAN")
		for _, d := range days {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d%%\n", d.Date, d.Minutes, d.Pages, d.Questions, d.AchievementRate)
		}
		return w.Flush()
	}),
}

var statsSubjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Totals per subject over the last N days",
	RunE: run(func(_ context.Context, a *app) error {
		bySubject := analytics.SubjectStats(a.state.Snapshot(), statsFlags.days, time.Now())
		if jsonOutput {
			return printJSON(bySubject)
		}

		w := newTable()
		fmt.Fprintln(w, "SUBJECT\tMINUTES\tPAGES\tQUESTIONS")
		for _, subject := range slices.Sorted(maps.Keys(bySubject)) {
			t := bySubject[subject]
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", subject, t.Minutes, t.Pages, t.Questions)
		}
		return w.Flush()
	}),
}

var statsBookCmd = &cobra.Command{
	Use:   "book ID",
	Short: "Totals for one book over the last N days",
	Args:  cobra.ExactArgs(1),
	RunE: runArgs(func(_ context.Context, a *app, args []string) error {
		book, ok := a.state.Book(args[0])
		if !ok {
			return domainerrors.NotFoundf("book %s not found", args[0])
		}

		summary := analytics.BookStats(a.state.Snapshot(), book.ID, statsFlags.days, time.Now())
		if jsonOutput {
			return printJSON(summary)
		}
		fmt.Printf("%s, last %d days: %d sessions, %d min, %d pages, %d questions\n",
			book.Title, statsFlags.days, summary.Sessions, summary.Minutes, summary.Pages, summary.Questions)
		return nil
	}),
}

var statsFlags struct {
	days int
}

func init() {
	statsDailyCmd.Flags().IntVar(&statsFlags.days, "days", 7, "Number of days")
	statsSubjectCmd.Flags().IntVar(&statsFlags.days, "days", 30, "Number of days")
	statsBookCmd.Flags().IntVar(&statsFlags.days, "days", 30, "Number of days")

	statsCmd.AddCommand(statsTodayCmd)
	statsCmd.AddCommand(statsWeekCmd)
	statsCmd.AddCommand(statsDailyCmd)
	statsCmd.AddCommand(statsSubjectCmd)
	statsCmd.AddCommand(statsBookCmd)
}
