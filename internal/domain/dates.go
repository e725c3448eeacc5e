package domain

import "time"

// DateLayout is the calendar-day format used for Log.Date, Plan.Date and every date-keyed index.
// Lexicographic order of formatted dates equals chronological order.
const DateLayout = "2006-01-02"

// FormatDate returns the local calendar day of t.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

// ParseDate parses a calendar day in local time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// StartOfDay normalizes t to local midnight.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// DateRange returns the inclusive window of the last days calendar days ending today.
// DateRange(7, now) spans today and the six days before it.
func DateRange(days int, now time.Time) (from, to string) {
	today := StartOfDay(now)
	return today.AddDate(0, 0, -days+1).Format(DateLayout), today.Format(DateLayout)
}

// DatesBetween lists every calendar day from from to to inclusive, in order.
// Returns nil when either bound is malformed or from is after to.
func DatesBetween(from, to string) []string {
	start, err := ParseDate(from)
	if err != nil {
		return nil
	}
	end, err := ParseDate(to)
	if err != nil {
		return nil
	}

	var dates []string
	// AddDate rather than Add(24h) so DST transitions don't skip or repeat a day.
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// WeekStart returns local midnight of the Monday starting the ISO week containing now.
func WeekStart(now time.Time) time.Time {
	today := StartOfDay(now)
	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	return today.AddDate(0, 0, -(weekday - 1))
}

// WeekDates returns the seven calendar days (Monday through Sunday) of the week containing now.
func WeekDates(now time.Time) []string {
	monday := WeekStart(now)
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}
