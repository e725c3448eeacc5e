package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/RHgrive/Study-Plus/internal/analytics"
	"github.com/RHgrive/Study-Plus/internal/domain"
	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage daily plans",
}

var planSetCmd = &cobra.Command{
	Use:   "set DATE",
	Short: "Set the plan for a date, replacing any existing one",
	Long: `Set the plan for a date, replacing any existing one.

Each --item is BOOK_ID:PAGES[:QUESTIONS[:PRIORITY]], for example
  studyplus plan set 2024-05-15 --item bk_1:20:10 --item bk_2:0:30:2`,
	Args: cobra.ExactArgs(1),
	RunE: runArgs(func(ctx context.Context, a *app, args []string) error {
		items := make([]domain.PlanItem, 0, len(planFlags.items))
		for _, raw := range planFlags.items {
			item, err := parsePlanItem(raw)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		plan, err := a.state.SavePlan(ctx, resolveDate(args[0]), items)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(plan)
		}
		pages, questions := plan.Targets()
		fmt.Printf("Plan for %s: %d items, %d pages, %d questions\n", plan.Date, len(plan.Items), pages, questions)
		return nil
	}),
}

var planShowCmd = &cobra.Command{
	Use:   "show [DATE]",
	Short: "Show the plan for a date (default today) and how much of it is done",
	Args:  cobra.MaximumNArgs(1),
	RunE: runArgs(func(ctx context.Context, a *app, args []string) error {
		date := domain.FormatDate(time.Now())
		if len(args) == 1 {
			date = resolveDate(args[0])
		}

		plan, ok := a.state.Plan(date)
		if !ok {
			return domainerrors.NotFoundf("no plan for %s", date)
		}

		snap := a.state.Snapshot()
		var pages, questions int
		for _, l := range snap.Logs {
			if l.Date == date {
				pages += l.Pages()
				questions += l.QuestionCount()
			}
		}
		rate := analytics.AchievementRate(&plan, pages, questions)

		if jsonOutput {
			return printJSON(struct {
				domain.Plan
				AchievementRate int `json:"achievementRate"`
			}{plan, rate})
		}

		w := newTable()
		fmt.Fprintf(w, "Plan for %s (%d%% done)\n", date, rate)
		fmt.Fprintln(w, "BOOK\tPAGES\tQUESTIONS\tPRIORITY\tNOTES")
		for _, item := range plan.Items {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
				bookTitle(a, item.BookID), item.TargetPages, item.TargetQuestions, item.Priority, item.Notes)
		}
		return w.Flush()
	}),
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete DATE",
	Short: "Delete the plan for a date",
	Args:  cobra.ExactArgs(1),
	RunE: runArgs(func(ctx context.Context, a *app, args []string) error {
		date := resolveDate(args[0])
		if err := a.state.DeletePlan(ctx, date); err != nil {
			return err
		}
		fmt.Printf("Deleted plan for %s\n", date)
		return nil
	}),
}

var planFlags struct {
	items []string
}

// parsePlanItem reads BOOK_ID:PAGES[:QUESTIONS[:PRIORITY]].
func parsePlanItem(raw string) (domain.PlanItem, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 4 || parts[0] == "" {
		return domain.PlanItem{}, domainerrors.Validation(
			fmt.Sprintf("plan item %q must be BOOK_ID:PAGES[:QUESTIONS[:PRIORITY]]", raw))
	}

	nums := make([]int, 3)
	for i, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return domain.PlanItem{}, domainerrors.Validation(fmt.Sprintf("plan item %q: %q is not a number", raw, p))
		}
		nums[i] = n
	}

	return domain.PlanItem{
		BookID:          parts[0],
		TargetPages:     nums[0],
		TargetQuestions: nums[1],
		Priority:        nums[2],
	}, nil
}

// resolveDate accepts "today", "tomorrow", "yesterday" or a YYYY-MM-DD date.
func resolveDate(s string) string {
	now := time.Now()
	switch s {
	case "today":
		return domain.FormatDate(now)
	case "tomorrow":
		return domain.FormatDate(now.AddDate(0, 0, 1))
	case "yesterday":
		return domain.FormatDate(now.AddDate(0, 0, -1))
	default:
		return s
	}
}

func init() {
	planSetCmd.Flags().StringArrayVar(&planFlags.items, "item", nil, "Plan item BOOK_ID:PAGES[:QUESTIONS[:PRIORITY]] (repeatable)")

	planCmd.AddCommand(planSetCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planDeleteCmd)
}
