// Package domain defines the records persisted by the store: books, logs, plans,
// images, preferences and meta, plus the calendar-day helpers shared by the
// store, the state container and analytics.
package domain

import "github.com/RHgrive/Study-Plus/internal/validation"

var validate = validation.New()
