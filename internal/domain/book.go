package domain

import "time"

// Book is a reference material whose study progress is tracked.
// ID, CreatedAt and UpdatedAt are assigned by the repository.
type Book struct {
	ID             string    `json:"id"`
	Title          string    `json:"title" validate:"required"`
	Subtitle       string    `json:"subtitle,omitempty"`
	Subject        string    `json:"subject" validate:"required"`
	Difficulty     int       `json:"difficulty" validate:"min=1,max=5"`
	TotalPages     *int      `json:"totalPages,omitempty" validate:"omitempty,gte=0"`
	TotalQuestions *int      `json:"totalQuestions,omitempty" validate:"omitempty,gte=0"`
	Color          string    `json:"color,omitempty" validate:"omitempty,hexcolor"`
	CoverImageID   string    `json:"coverImageId,omitempty"` // weak reference, may dangle
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (b *Book) InitTimestamps(now time.Time) {
	b.CreatedAt = now
	b.UpdatedAt = now
}

// Touch refreshes UpdatedAt.
func (b *Book) Touch(now time.Time) {
	b.UpdatedAt = now
}

// Validate checks the book's invariants.
func (b *Book) Validate() error {
	return validate.Validate(b)
}
