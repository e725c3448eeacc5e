package domain

// Snapshot is a read-only copy of the in-memory state handed to analytics.
// Logs are sorted by Datetime, newest first.
type Snapshot struct {
	Books       []Book
	PlansByDate map[string]Plan
	Logs        []LogEntry
	Preferences Preferences
}

// BookByID resolves a weak book reference. Absence is not an error.
func (s *Snapshot) BookByID(id string) (Book, bool) {
	for _, b := range s.Books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}
