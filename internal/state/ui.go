package state

// DefaultRoute is the route shown before anything navigates.
const DefaultRoute = "#/dashboard"

// UI is presentation state. It is never persisted.
type UI struct {
	Route       string
	Loading     bool
	ActiveModal string
	Toast       string
	DateRange   DateRange
}

// DateRange is the calendar-day window selected for charts and lists.
// Empty bounds are open.
type DateRange struct {
	From string
	To   string
}
