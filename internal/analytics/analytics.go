// Package analytics aggregates a state snapshot into the numbers shown on the
// dashboard. Every function is pure: the caller passes the snapshot and the
// current time, nothing is read from or written to the store.
//
// All sums read absent page and question counts as 0.
package analytics

import (
	"math"
	"time"

	"github.com/RHgrive/Study-Plus/internal/domain"
)

// Unclassified is the subject used for logs whose book no longer resolves.
const Unclassified = "unclassified"

// Totals is the effort summed over a set of logs.
type Totals struct {
	Minutes   int `json:"minutes"`
	Pages     int `json:"pages"`
	Questions int `json:"questions"`
}

func (t *Totals) add(l *domain.LogEntry) {
	t.Minutes += l.Minutes
	t.Pages += l.Pages()
	t.Questions += l.QuestionCount()
}

// DayStats is one calendar day of DailyStats.
type DayStats struct {
	Date string `json:"date"`
	Totals
	AchievementRate int `json:"achievementRate"`
}

// BookSummary is the result of BookStats.
type BookSummary struct {
	Totals
	Sessions int `json:"sessions"`
}

// TodaySummary is the result of TodayStats.
type TodaySummary struct {
	Totals
	AchievementRate int `json:"achievementRate"`
}

// AchievementRate scores a day's effort against its plan as a percentage.
//
// Each metric with a target scores min(actual/target, 1); a metric without a
// target scores 0 and still counts in the average. The result is the rounded
// mean of both scores times 100. No plan, or a plan whose targets are both 0,
// scores 0.
func AchievementRate(plan *domain.Plan, pages, questions int) int {
	if plan == nil || len(plan.Items) == 0 {
		return 0
	}

	targetPages, targetQuestions := plan.Targets()
	if targetPages <= 0 && targetQuestions <= 0 {
		return 0
	}

	var pageRate, questionRate float64
	if targetPages > 0 {
		pageRate = math.Min(float64(pages)/float64(targetPages), 1)
	}
	if targetQuestions > 0 {
		questionRate = math.Min(float64(questions)/float64(targetQuestions), 1)
	}

	return int(math.Round((pageRate + questionRate) / 2 * 100))
}

// DailyStats returns one entry per calendar day of the windowDays days ending
// today, oldest first. Days without logs are present with zero totals.
func DailyStats(snap domain.Snapshot, windowDays int, now time.Time) []DayStats {
	if windowDays <= 0 {
		return []DayStats{}
	}

	from, to := domain.DateRange(windowDays, now)
	dates := domain.DatesBetween(from, to)

	byDate := make(map[string]*Totals, len(dates))
	for _, date := range dates {
		byDate[date] = &Totals{}
	}
	for i := range snap.Logs {
		if totals, ok := byDate[snap.Logs[i].Date]; ok {
			totals.add(&snap.Logs[i])
		}
	}

	days := make([]DayStats, 0, len(dates))
	for _, date := range dates {
		totals := *byDate[date]
		days = append(days, DayStats{
			Date:            date,
			Totals:          totals,
			AchievementRate: achievementFor(snap, date, totals),
		})
	}
	return days
}

// TodayStats is the DailyStats entry for today.
func TodayStats(snap domain.Snapshot, now time.Time) TodaySummary {
	today := DailyStats(snap, 1, now)[0]
	return TodaySummary{Totals: today.Totals, AchievementRate: today.AchievementRate}
}

// WeekStats sums the logs of the Monday-start week containing now.
func WeekStats(snap domain.Snapshot, now time.Time) Totals {
	week := make(map[string]bool, 7)
	for _, date := range domain.WeekDates(now) {
		week[date] = true
	}

	var totals Totals
	for i := range snap.Logs {
		if week[snap.Logs[i].Date] {
			totals.add(&snap.Logs[i])
		}
	}
	return totals
}

// BookStats sums the logs for bookID in the windowDays days ending today.
// The book itself need not exist; logs of a deleted book still count.
func BookStats(snap domain.Snapshot, bookID string, windowDays int, now time.Time) BookSummary {
	var summary BookSummary
	if windowDays <= 0 {
		return summary
	}

	from, to := domain.DateRange(windowDays, now)
	for i := range snap.Logs {
		l := &snap.Logs[i]
		if l.BookID != bookID || l.Date < from || l.Date > to {
			continue
		}
		summary.add(l)
		summary.Sessions++
	}
	return summary
}

// SubjectStats sums the logs in the windowDays days ending today by the
// subject of their book. Logs whose book cannot be resolved go to Unclassified.
func SubjectStats(snap domain.Snapshot, windowDays int, now time.Time) map[string]Totals {
	result := make(map[string]Totals)
	if windowDays <= 0 {
		return result
	}

	subjects := make(map[string]string, len(snap.Books))
	for _, b := range snap.Books {
		subjects[b.ID] = b.Subject
	}

	from, to := domain.DateRange(windowDays, now)
	for i := range snap.Logs {
		l := &snap.Logs[i]
		if l.Date < from || l.Date > to {
			continue
		}

		subject, ok := subjects[l.BookID]
		if !ok {
			subject = Unclassified
		}
		totals := result[subject]
		totals.add(l)
		result[subject] = totals
	}
	return result
}

func achievementFor(snap domain.Snapshot, date string, totals Totals) int {
	plan, ok := snap.PlansByDate[date]
	if !ok {
		return 0
	}
	return AchievementRate(&plan, totals.Pages, totals.Questions)
}
