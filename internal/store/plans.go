package store

import (
	"context"
	"errors"

	"github.com/RHgrive/Study-Plus/internal/domain"
	"github.com/RHgrive/Study-Plus/internal/id"
)

// SavePlan upserts plan by its date. When a plan for the date exists its id is
// reused and the record replaced, so a date never holds two plans. A new plan
// keeps a caller-supplied id if it is free.
func (s *Store) SavePlan(ctx context.Context, plan *domain.Plan) error {
	if plan.Items == nil {
		plan.Items = []domain.PlanItem{}
	}

	existing, err := s.GetPlanByDate(ctx, plan.Date)
	if err != nil && !isNotFound(err) {
		return err
	}
	if existing != nil {
		plan.ID = existing.ID
		return s.Plans.Update(ctx, plan.ID, plan)
	}

	if plan.ID != "" {
		err := s.Plans.Create(ctx, plan.ID, plan)
		if !errors.Is(err, errIDTaken) {
			return err
		}
	}

	return createWithFreshID(ctx, s.Plans, id.PrefixPlan, &plan.ID, plan)
}

// GetPlanByDate returns the plan for date, or ErrNotFound.
func (s *Store) GetPlanByDate(ctx context.Context, date string) (*domain.Plan, error) {
	plans, err := s.Plans.GetByIndex(ctx, IndexDate, date)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, ErrNotFound.WithMessage("no plan for " + date)
	}
	return &plans[0], nil
}

// ListPlans returns every plan.
func (s *Store) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	return s.Plans.All(ctx)
}

// DeletePlan removes the plan for date, if any.
func (s *Store) DeletePlan(ctx context.Context, date string) error {
	existing, err := s.GetPlanByDate(ctx, date)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.Plans.Delete(ctx, existing.ID)
}
