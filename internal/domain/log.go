package domain

import "time"

// LogEntry is a single recorded study session against a Book.
//
// Date is derived from Datetime and recomputed by the repository on every
// write; values supplied by callers are overwritten.
type LogEntry struct {
	ID        string    `json:"id"`
	Datetime  time.Time `json:"datetime" validate:"required"`
	Date      string    `json:"date"`
	BookID    string    `json:"bookId" validate:"required"` // weak reference, may dangle
	FromPage  *int      `json:"fromPage,omitempty" validate:"omitempty,gte=0"`
	ToPage    *int      `json:"toPage,omitempty" validate:"omitempty,gte=0"`
	Questions *int      `json:"questions,omitempty" validate:"omitempty,gte=0"`
	Minutes   int       `json:"minutes" validate:"gt=0"`
	Memo      string    `json:"memo"`
	PhotoID   string    `json:"photoId,omitempty"` // weak reference, may dangle
	Tags      []string  `json:"tags"`
}

// Pages returns max(0, toPage - fromPage), reading absent bounds as 0.
func (l *LogEntry) Pages() int {
	return max(0, IntValue(l.ToPage)-IntValue(l.FromPage))
}

// QuestionCount returns the questions solved, reading absent as 0.
func (l *LogEntry) QuestionCount() int {
	return IntValue(l.Questions)
}

// DeriveDate recomputes Date from Datetime.
func (l *LogEntry) DeriveDate() {
	l.Date = FormatDate(l.Datetime)
}

// Validate checks the log's invariants. A zero page or question count counts as absent.
func (l *LogEntry) Validate() error {
	return validate.Validate(l,
		func() (string, string) {
			if l.FromPage != nil && l.ToPage != nil && *l.FromPage > *l.ToPage {
				return "fromPage", "must not exceed toPage"
			}
			return "", ""
		},
		func() (string, string) {
			if IntValue(l.FromPage) == 0 && IntValue(l.ToPage) == 0 && IntValue(l.Questions) == 0 {
				return "pages", "enter pages or questions"
			}
			return "", ""
		},
	)
}

// IntValue dereferences an optional count, treating nil as 0.
func IntValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
