package analytics

import (
	"slices"
	"time"

	"github.com/RHgrive/Study-Plus/internal/domain"
)

// StreakSummary counts consecutive study days.
type StreakSummary struct {
	// Current is the run ending today, or yesterday when nothing is logged yet today.
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Streak computes the current and longest runs of calendar days with at least one log.
func Streak(snap domain.Snapshot, now time.Time) StreakSummary {
	studied := make(map[string]bool)
	for _, l := range snap.Logs {
		if l.Date != "" {
			studied[l.Date] = true
		}
	}
	if len(studied) == 0 {
		return StreakSummary{}
	}

	dates := make([]string, 0, len(studied))
	for date := range studied {
		dates = append(dates, date)
	}
	slices.Sort(dates)

	// Find longest streak
	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if nextDay(dates[i-1]) == dates[i] {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	// Current streak must include today or yesterday
	today := domain.FormatDate(now)
	yesterday := domain.StartOfDay(now).AddDate(0, 0, -1).Format(domain.DateLayout)

	current := 0
	last := dates[len(dates)-1]
	if last == today || last == yesterday {
		for day := last; studied[day]; day = prevDay(day) {
			current++
		}
	}

	return StreakSummary{Current: current, Longest: longest}
}

func nextDay(date string) string {
	t, err := domain.ParseDate(date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(domain.DateLayout)
}

func prevDay(date string) string {
	t, err := domain.ParseDate(date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(domain.DateLayout)
}
