package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/domain"
)

// PlanBook is the working copy of one user's plans. Every mutation is applied
// in memory first and then saved; when the save fails the working copy is put
// back to its last confirmed state.
type PlanBook struct {
	userID string
	repo   domain.PlanRepository
	plans  []*domain.SchedulePlan
}

func OpenPlanBook(ctx context.Context, repo domain.PlanRepository, userID string) (*PlanBook, error) {
	if userID == "" {
		return nil, domain.ErrPlanInvalidUserID
	}

	plans, err := repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("plan book: load plans: %w", err)
	}

	return &PlanBook{
		userID: userID,
		repo:   repo,
		plans:  plans,
	}, nil
}

func (b *PlanBook) UserID() string {
	return b.userID
}

// Plans returns the working copy. Callers must not mutate the plans directly.
func (b *PlanBook) Plans() []*domain.SchedulePlan {
	return b.plans
}

func (b *PlanBook) Active() *domain.SchedulePlan {
	return domain.ActivePlan(b.plans)
}

func (b *PlanBook) Find(id string) (*domain.SchedulePlan, error) {
	for _, p := range b.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrPlanNotFound
}

type bookSnapshot struct {
	plans  []*domain.SchedulePlan
	values []domain.SchedulePlan
}

func (b *PlanBook) snapshot() bookSnapshot {
	s := bookSnapshot{
		plans:  append([]*domain.SchedulePlan(nil), b.plans...),
		values: make([]domain.SchedulePlan, len(b.plans)),
	}
	for i, p := range b.plans {
		s.values[i] = *p
	}
	return s
}

func (b *PlanBook) restore(s bookSnapshot) {
	for i, p := range s.plans {
		*p = s.values[i]
	}
	b.plans = s.plans
}

// commit runs mutate against the working copy and persist against the store,
// rolling the working copy back if either fails.
func (b *PlanBook) commit(mutate, persist func() error) error {
	snap := b.snapshot()

	if err := mutate(); err != nil {
		b.restore(snap)
		return err
	}

	if err := persist(); err != nil {
		b.restore(snap)
		return fmt.Errorf("plan book: save failed: %w", err)
	}

	return nil
}

func (b *PlanBook) Create(ctx context.Context, name, description string, schedule *domain.WeeklySchedule) (*domain.SchedulePlan, error) {
	plan, err := domain.NewSchedulePlan(b.userID, name, description)
	if err != nil {
		return nil, err
	}

	err = b.commit(
		func() error {
			if schedule != nil {
				if err := plan.ReplaceSchedule(*schedule); err != nil {
					return err
				}
			}
			b.plans = append(b.plans, plan)
			return nil
		},
		func() error { return b.repo.Create(ctx, plan) },
	)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (b *PlanBook) Duplicate(ctx context.Context, id string) (*domain.SchedulePlan, error) {
	source, err := b.Find(id)
	if err != nil {
		return nil, err
	}

	dup := source.Duplicate()

	err = b.commit(
		func() error {
			if err := dup.Validate(); err != nil {
				return err
			}
			b.plans = append(b.plans, dup)
			return nil
		},
		func() error { return b.repo.Create(ctx, dup) },
	)
	if err != nil {
		return nil, err
	}
	return dup, nil
}

// Edit renames the plan and, when schedule is non-nil, replaces its week.
func (b *PlanBook) Edit(ctx context.Context, id, name, description string, schedule *domain.WeeklySchedule) (*domain.SchedulePlan, error) {
	return b.mutatePlan(ctx, id, func(p *domain.SchedulePlan) error {
		if err := p.Rename(name, description); err != nil {
			return err
		}
		if schedule != nil {
			return p.ReplaceSchedule(*schedule)
		}
		return nil
	})
}

func (b *PlanBook) ApplyTemplate(ctx context.Context, id string, tmpl domain.Template) (*domain.SchedulePlan, error) {
	return b.mutatePlan(ctx, id, func(p *domain.SchedulePlan) error {
		return p.ApplyTemplate(tmpl)
	})
}

func (b *PlanBook) UpdateDayWindow(ctx context.Context, id string, day domain.Weekday, field domain.WindowField, value string) (*domain.SchedulePlan, error) {
	return b.mutatePlan(ctx, id, func(p *domain.SchedulePlan) error {
		return p.UpdateDayWindow(day, field, value)
	})
}

func (b *PlanBook) SetDayActive(ctx context.Context, id string, day domain.Weekday, active bool) (*domain.SchedulePlan, error) {
	return b.mutatePlan(ctx, id, func(p *domain.SchedulePlan) error {
		return p.SetDayActive(day, active)
	})
}

// UpdateDay edits one day in a single save: the window bound named by field
// when field is non-nil, then the rest-day flag when active is non-nil.
func (b *PlanBook) UpdateDay(ctx context.Context, id string, day domain.Weekday, field *domain.WindowField, value string, active *bool) (*domain.SchedulePlan, error) {
	return b.mutatePlan(ctx, id, func(p *domain.SchedulePlan) error {
		if field != nil {
			if err := p.UpdateDayWindow(day, *field, value); err != nil {
				return err
			}
		}
		if active != nil {
			return p.SetDayActive(day, *active)
		}
		return nil
	})
}

func (b *PlanBook) mutatePlan(ctx context.Context, id string, fn func(p *domain.SchedulePlan) error) (*domain.SchedulePlan, error) {
	plan, err := b.Find(id)
	if err != nil {
		return nil, err
	}

	err = b.commit(
		func() error { return fn(plan) },
		func() error { return b.repo.Update(ctx, plan) },
	)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// SetActive makes id the single active plan of the book.
func (b *PlanBook) SetActive(ctx context.Context, id string) (*domain.SchedulePlan, error) {
	err := b.commit(
		func() error { return domain.SetActivePlan(id, b.plans) },
		func() error { return b.repo.Activate(ctx, b.userID, id) },
	)
	if err != nil {
		return nil, err
	}
	return b.Active(), nil
}

// Delete removes the plan. Deleting the active plan leaves the book with no
// active plan.
func (b *PlanBook) Delete(ctx context.Context, id string) error {
	plan, err := b.Find(id)
	if err != nil {
		return err
	}

	return b.commit(
		func() error {
			plan.MarkDeleted()
			kept := make([]*domain.SchedulePlan, 0, len(b.plans))
			for _, p := range b.plans {
				if p.ID != id {
					kept = append(kept, p)
				}
			}
			b.plans = kept
			return nil
		},
		func() error { return b.repo.Delete(ctx, b.userID, id) },
	)
}
