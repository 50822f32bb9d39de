package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/domain"
)

type fakeRepo struct {
	mu        sync.Mutex
	plans     map[string]*domain.SchedulePlan
	summaries map[string]domain.WeeklySummary
	failStore bool
}

func newFakeRepo(plans ...*domain.SchedulePlan) *fakeRepo {
	r := &fakeRepo{
		plans:     make(map[string]*domain.SchedulePlan),
		summaries: make(map[string]domain.WeeklySummary),
	}
	for _, p := range plans {
		r.plans[p.ID] = p
	}
	return r
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*domain.SchedulePlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	return p, nil
}

func (r *fakeRepo) UpdateSummary(ctx context.Context, id string, summary domain.WeeklySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failStore {
		return errors.New("db down")
	}
	r.summaries[id] = summary
	return nil
}

func (r *fakeRepo) summary(id string) (domain.WeeklySummary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.summaries[id]
	return s, ok
}

func TestSummaryWorker_ProcessJob(t *testing.T) {
	plan, err := domain.NewSchedulePlan("u1", "Weekdays", "")
	require.NoError(t, err)
	require.NoError(t, plan.SetDayActive(domain.Saturday, false))
	require.NoError(t, plan.SetDayActive(domain.Sunday, false))

	t.Run("Stores summary of active days", func(t *testing.T) {
		repo := newFakeRepo(plan)
		w := NewSummaryWorker(repo, zerolog.Nop())

		w.processJob(context.Background(), SummaryJob{PlanID: plan.ID})

		got, ok := repo.summary(plan.ID)
		require.True(t, ok)
		assert.Equal(t, 5, got.ActiveDays)
		assert.Equal(t, 80.0, got.TotalFastingHours)
		assert.Equal(t, 16.0, got.AverageFastingHours)
	})

	t.Run("Missing plan is skipped", func(t *testing.T) {
		repo := newFakeRepo()
		w := NewSummaryWorker(repo, zerolog.Nop())

		w.processJob(context.Background(), SummaryJob{PlanID: "ghost"})

		_, ok := repo.summary("ghost")
		assert.False(t, ok)
	})

	t.Run("Store failure is logged, not fatal", func(t *testing.T) {
		repo := newFakeRepo(plan)
		repo.failStore = true
		w := NewSummaryWorker(repo, zerolog.Nop())

		assert.NotPanics(t, func() {
			w.processJob(context.Background(), SummaryJob{PlanID: plan.ID})
		})
	})
}

func TestSummaryWorker_StartAndEnqueue(t *testing.T) {
	plan, err := domain.NewSchedulePlan("u1", "Daily", "")
	require.NoError(t, err)

	repo := newFakeRepo(plan)
	w := NewSummaryWorker(repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	w.Enqueue(plan.ID)

	assert.Eventually(t, func() bool {
		_, ok := repo.summary(plan.ID)
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSummaryWorker_EnqueueDropsWhenFull(t *testing.T) {
	w := NewSummaryWorker(newFakeRepo(), zerolog.Nop())

	for i := 0; i < cap(w.jobs)+10; i++ {
		w.Enqueue("p")
	}

	assert.Equal(t, cap(w.jobs), len(w.jobs))
}
