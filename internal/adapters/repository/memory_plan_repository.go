package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/domain"
)

var _ domain.PlanRepository = (*InMemoryPlanRepository)(nil)

// InMemoryPlanRepository keeps plans in process memory. Stored plans are
// copies, so callers never share state with the store.
type InMemoryPlanRepository struct {
	store     map[string]*domain.SchedulePlan
	summaries map[string]domain.WeeklySummary

	mu sync.RWMutex
}

func NewInMemoryPlanRepository() *InMemoryPlanRepository {
	return &InMemoryPlanRepository{
		store:     make(map[string]*domain.SchedulePlan),
		summaries: make(map[string]domain.WeeklySummary),
	}
}

func clonePlan(p *domain.SchedulePlan) *domain.SchedulePlan {
	c := *p
	return &c
}

func (r *InMemoryPlanRepository) Create(ctx context.Context, plan *domain.SchedulePlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[plan.ID]; exists {
		return domain.ErrPlanConflict
	}

	if plan.Version == 0 {
		plan.Version = 1
	}
	stored := domain.RestoreSchedulePlan(*plan, false)
	r.store[plan.ID] = stored
	return nil
}

func (r *InMemoryPlanRepository) GetByID(ctx context.Context, id string) (*domain.SchedulePlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.store[id]
	if !ok || p.IsDeleted() {
		return nil, domain.ErrPlanNotFound
	}
	return clonePlan(p), nil
}

func (r *InMemoryPlanRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.SchedulePlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var plans []*domain.SchedulePlan
	for _, p := range r.store {
		if p.UserID == userID && !p.IsDeleted() {
			plans = append(plans, clonePlan(p))
		}
	}

	sortByCreation(plans)
	return plans, nil
}

func (r *InMemoryPlanRepository) Update(ctx context.Context, plan *domain.SchedulePlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[plan.ID]
	if !ok || stored.IsDeleted() {
		return domain.ErrPlanNotFound
	}
	if stored.Version != plan.Version {
		return domain.ErrPlanConflict
	}

	plan.Version++
	plan.UpdatedAt = time.Now().UTC()

	r.store[plan.ID] = domain.RestoreSchedulePlan(*plan, stored.IsActive())
	return nil
}

func (r *InMemoryPlanRepository) Activate(ctx context.Context, userID, planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owned []*domain.SchedulePlan
	for _, p := range r.store {
		if p.UserID == userID && !p.IsDeleted() {
			owned = append(owned, p)
		}
	}

	return domain.SetActivePlan(planID, owned)
}

func (r *InMemoryPlanRepository) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.store[id]
	if !ok || p.IsDeleted() || p.UserID != userID {
		return domain.ErrPlanNotFound
	}

	p.MarkDeleted()
	p.Version++
	return nil
}

func (r *InMemoryPlanRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.SchedulePlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var changes []*domain.SchedulePlan
	for _, p := range r.store {
		if p.UserID == userID && p.UpdatedAt.After(since) {
			changes = append(changes, clonePlan(p))
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].UpdatedAt.Before(changes[j].UpdatedAt)
	})
	return changes, nil
}

func (r *InMemoryPlanRepository) UpdateSummary(ctx context.Context, id string, summary domain.WeeklySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrPlanNotFound
	}
	r.summaries[id] = summary
	return nil
}

// StoredSummary returns the last summary written for id.
func (r *InMemoryPlanRepository) StoredSummary(id string) (domain.WeeklySummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.summaries[id]
	return s, ok
}

func sortByCreation(plans []*domain.SchedulePlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].ID < plans[j].ID
		}
		return plans[i].CreatedAt.Before(plans[j].CreatedAt)
	})
}
