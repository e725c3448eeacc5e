package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
	"github.com/RHgrive/Study-Plus/internal/validation"
)

func validLog() LogEntry {
	return LogEntry{
		Datetime: time.Date(2025, 1, 14, 9, 0, 0, 0, time.Local),
		BookID:   "book_1",
		FromPage: IntPtr(10),
		ToPage:   IntPtr(25),
		Minutes:  30,
	}
}

func TestLogEntry_Pages(t *testing.T) {
	tests := []struct {
		name     string
		from, to *int
		want     int
	}{
		{"both set", IntPtr(10), IntPtr(25), 15},
		{"reversed clamps to zero", IntPtr(25), IntPtr(10), 0},
		{"only to", nil, IntPtr(12), 12},
		{"only from", IntPtr(12), nil, 0},
		{"neither", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := LogEntry{FromPage: tt.from, ToPage: tt.to}
			assert.Equal(t, tt.want, l.Pages())
		})
	}
}

func TestLogEntry_DeriveDate(t *testing.T) {
	l := validLog()
	l.Date = "1999-01-01"
	l.DeriveDate()
	assert.Equal(t, "2025-01-14", l.Date)
}

func TestLogEntry_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*LogEntry)
		wantField string
	}{
		{"valid", func(*LogEntry) {}, ""},
		{"no book", func(l *LogEntry) { l.BookID = "" }, "bookId"},
		{"zero minutes", func(l *LogEntry) { l.Minutes = 0 }, "minutes"},
		{"negative minutes", func(l *LogEntry) { l.Minutes = -5 }, "minutes"},
		{"from after to", func(l *LogEntry) { l.FromPage = IntPtr(30) }, "fromPage"},
		{"nothing studied", func(l *LogEntry) { l.FromPage, l.ToPage = nil, nil }, "pages"},
		{"questions only", func(l *LogEntry) { l.FromPage, l.ToPage, l.Questions = nil, nil, IntPtr(8) }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validLog()
			tt.mutate(&l)

			err := l.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
			assert.Contains(t, validation.Details(err), tt.wantField)
		})
	}
}

func TestBook_Validate(t *testing.T) {
	b := Book{Title: "Kinetics", Subject: "Chemistry", Difficulty: 3, Color: "#ff8800"}
	assert.NoError(t, b.Validate())

	b.Difficulty = 0
	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, validation.Details(err), "difficulty")

	b = Book{Subject: "Chemistry", Difficulty: 2}
	assert.Contains(t, validation.Details(b.Validate()), "title")
}

func TestPlan_TargetsAndValidate(t *testing.T) {
	p := Plan{
		Date: "2025-01-14",
		Items: []PlanItem{
			{BookID: "a", TargetPages: 20, TargetQuestions: 5, Priority: 1},
			{BookID: "b", TargetPages: 10, Priority: 0},
		},
	}
	pages, questions := p.Targets()
	assert.Equal(t, 30, pages)
	assert.Equal(t, 5, questions)
	assert.NoError(t, p.Validate())

	p.Items[1].Priority = 3
	assert.Contains(t, validation.Details(p.Validate()), "items[1].priority")

	p.Items[1].Priority = 0
	p.Date = "14/01/2025"
	assert.Contains(t, validation.Details(p.Validate()), "date")
}

func TestPreferences_Apply(t *testing.T) {
	prefs := DefaultPreferences()
	light := ThemeLight
	day := 0

	got := prefs.Apply(PreferencesPatch{Theme: &light, FirstDayOfWeek: &day})
	assert.Equal(t, ThemeLight, got.Theme)
	assert.Equal(t, 0, got.FirstDayOfWeek)
	assert.Equal(t, prefs.Accent, got.Accent)
	assert.Equal(t, ThemeDark, prefs.Theme, "receiver is not modified")

	assert.Equal(t, got, DefaultPreferences().Apply(got.Patch()))

	bad := "sepia"
	invalid := prefs.Apply(PreferencesPatch{Theme: &bad})
	assert.Contains(t, validation.Details(invalid.Validate()), "theme")
}
