package domain

// Plan holds the daily targets for one calendar date. Date is the natural key:
// saving a plan for a date that already has one replaces it.
type Plan struct {
	ID     string     `json:"id"`
	Date   string     `json:"date" validate:"required,datetime=2006-01-02"`
	Items  []PlanItem `json:"items" validate:"dive"`
	Frozen bool       `json:"frozen"` // reserved
}

// PlanItem is the target for a single book on the plan's date.
type PlanItem struct {
	BookID          string `json:"bookId" validate:"required"`
	TargetPages     int    `json:"targetPages" validate:"gte=0"`
	TargetQuestions int    `json:"targetQuestions" validate:"gte=0"`
	Priority        int    `json:"priority" validate:"gte=0,lte=2"`
	Notes           string `json:"notes"`
}

// Targets sums the page and question targets across all items.
func (p *Plan) Targets() (pages, questions int) {
	for _, item := range p.Items {
		pages += item.TargetPages
		questions += item.TargetQuestions
	}
	return pages, questions
}

// Validate checks the plan's invariants.
func (p *Plan) Validate() error {
	return validate.Validate(p)
}
