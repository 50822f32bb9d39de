package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/services"
)

func ptr[T any](v T) *T {
	return &v
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(planID string) {
	m.Called(planID)
}

func newTestService(t *testing.T) (*services.PlanService, *flakyRepo, *MockQueue) {
	t.Helper()
	repo := newFlakyRepo()
	queue := new(MockQueue)
	queue.On("Enqueue", mock.AnythingOfType("string")).Return()
	return services.NewPlanService(repo, queue), repo, queue
}

func TestPlanService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Default window", func(t *testing.T) {
		svc, _, queue := newTestService(t)

		plan, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "Weekdays"})
		require.NoError(t, err)

		assert.Equal(t, 16.0, plan.Schedule[domain.Monday].FastingHours)
		queue.AssertCalled(t, "Enqueue", plan.ID)
	})

	t.Run("Success: From template", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		plan, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "Warrior", Template: "20-4"})
		require.NoError(t, err)

		for _, d := range plan.Schedule {
			assert.Equal(t, "16:00", d.EatingStart.String())
			assert.Equal(t, 20.0, d.FastingHours)
		}
	})

	t.Run("Fail: Unknown template", func(t *testing.T) {
		svc, _, queue := newTestService(t)

		_, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "X", Template: "36-0"})
		assert.ErrorIs(t, err, domain.ErrUnknownTemplate)
		queue.AssertNotCalled(t, "Enqueue", mock.Anything)
	})

	t.Run("Fail: Template and schedule together", func(t *testing.T) {
		svc, repo, queue := newTestService(t)
		week := domain.UniformSchedule(domain.MustTimeOfDay("14:00"), domain.MustTimeOfDay("20:00"))

		_, err := svc.Create(ctx, services.CreatePlanInput{
			UserID: "user-1", Name: "Both", Template: "20-4", Schedule: &week,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		queue.AssertNotCalled(t, "Enqueue", mock.Anything)

		plans, err := repo.ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, plans)
	})

	t.Run("Fail: Store down", func(t *testing.T) {
		svc, repo, queue := newTestService(t)
		repo.failNext = errStoreDown

		_, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "X"})
		assert.ErrorIs(t, err, errStoreDown)
		queue.AssertNotCalled(t, "Enqueue", mock.Anything)
	})
}

func TestPlanService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	plan, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "Base", Description: "keep me"})
	require.NoError(t, err)

	t.Run("Success: Partial rename keeps description", func(t *testing.T) {
		updated, err := svc.Update(ctx, services.UpdatePlanInput{
			ID: plan.ID, UserID: "user-1", Name: ptr("Renamed"), Version: 1,
		})
		require.NoError(t, err)

		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "keep me", updated.Description)
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("Success: Full schedule replacement", func(t *testing.T) {
		week := domain.UniformSchedule(domain.MustTimeOfDay("18:00"), domain.MustTimeOfDay("19:00"))
		updated, err := svc.Update(ctx, services.UpdatePlanInput{
			ID: plan.ID, UserID: "user-1", Schedule: &week,
		})
		require.NoError(t, err)
		assert.Equal(t, 23.0, updated.Schedule[domain.Sunday].FastingHours)
	})

	t.Run("Success: Empty description clears it", func(t *testing.T) {
		updated, err := svc.Update(ctx, services.UpdatePlanInput{
			ID: plan.ID, UserID: "user-1", Description: ptr(""),
		})
		require.NoError(t, err)

		assert.Equal(t, "Renamed", updated.Name)
		assert.Empty(t, updated.Description)

		stored, err := svc.Get(ctx, "user-1", plan.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Description)
	})

	t.Run("Fail: Empty name", func(t *testing.T) {
		_, err := svc.Update(ctx, services.UpdatePlanInput{ID: plan.ID, UserID: "user-1", Name: ptr("")})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Fail: Stale version", func(t *testing.T) {
		_, err := svc.Update(ctx, services.UpdatePlanInput{
			ID: plan.ID, UserID: "user-1", Name: ptr("Too late"), Version: 1,
		})
		assert.ErrorIs(t, err, domain.ErrPlanConflict)
	})

	t.Run("Fail: Other user's plan", func(t *testing.T) {
		_, err := svc.Update(ctx, services.UpdatePlanInput{ID: plan.ID, UserID: "intruder", Name: ptr("Mine")})
		assert.ErrorIs(t, err, domain.ErrPlanNotFound)
	})
}

func TestPlanService_ApplyTemplate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	plan, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "Base"})
	require.NoError(t, err)

	t.Run("Success: Quick template", func(t *testing.T) {
		updated, err := svc.ApplyTemplate(ctx, services.ApplyTemplateInput{ID: plan.ID, UserID: "user-1", Template: "omad"})
		require.NoError(t, err)
		assert.Equal(t, 23.0, updated.Schedule[domain.Monday].FastingHours)
	})

	t.Run("Success: Custom overnight window", func(t *testing.T) {
		updated, err := svc.ApplyTemplate(ctx, services.ApplyTemplateInput{
			ID: plan.ID, UserID: "user-1", EatingStart: "22:00", EatingEnd: "02:00",
		})
		require.NoError(t, err)
		assert.Equal(t, 20.0, updated.Schedule[domain.Monday].FastingHours)
	})

	t.Run("Fail: Malformed custom window", func(t *testing.T) {
		_, err := svc.ApplyTemplate(ctx, services.ApplyTemplateInput{
			ID: plan.ID, UserID: "user-1", EatingStart: "noon", EatingEnd: "20:00",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPlanService_UpdateDay(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	plan, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "Base"})
	require.NoError(t, err)

	t.Run("Success: Window and rest flag together", func(t *testing.T) {
		updated, err := svc.UpdateDay(ctx, services.UpdateDayInput{
			ID: plan.ID, UserID: "user-1", Day: "Friday", Field: "start", Value: "10:00", Active: ptr(false),
		})
		require.NoError(t, err)

		friday := updated.Schedule[domain.Friday]
		assert.Equal(t, 14.0, friday.FastingHours)
		assert.False(t, friday.Active)
		assert.Equal(t, 16.0, updated.Schedule[domain.Thursday].FastingHours)
	})

	tests := []struct {
		name  string
		input services.UpdateDayInput
		want  error
	}{
		{"Bad day", services.UpdateDayInput{Day: "funday", Field: "start", Value: "10:00"}, domain.ErrInvalidWeekday},
		{"Bad field", services.UpdateDayInput{Day: "monday", Field: "lunch", Value: "10:00"}, domain.ErrInvalidWindowField},
		{"Bad value", services.UpdateDayInput{Day: "monday", Field: "end", Value: "24:00"}, domain.ErrInvalidTimeOfDay},
		{"Nothing to do", services.UpdateDayInput{Day: "monday"}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run("Fail: "+tt.name, func(t *testing.T) {
			tt.input.ID = plan.ID
			tt.input.UserID = "user-1"
			_, err := svc.UpdateDay(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPlanService_UpdateDaySavesOnce(t *testing.T) {
	ctx := context.Background()
	input := func(id string) services.UpdateDayInput {
		return services.UpdateDayInput{
			ID: id, UserID: "user-1", Day: "friday", Field: "start", Value: "10:00", Active: ptr(false),
		}
	}

	t.Run("Success: Both edits land in one save", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		plan, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "Base"})
		require.NoError(t, err)
		repo.failOnUpdate(2)

		_, err = svc.UpdateDay(ctx, input(plan.ID))
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, plan.ID)
		require.NoError(t, err)
		friday := stored.Schedule[domain.Friday]
		assert.Equal(t, "10:00", friday.EatingStart.String())
		assert.False(t, friday.Active)
		assert.Equal(t, 2, stored.Version)
	})

	t.Run("Fail: Save error keeps the day as stored", func(t *testing.T) {
		svc, repo, queue := newTestService(t)
		plan, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "Base"})
		require.NoError(t, err)
		repo.failOnUpdate(1)

		_, err = svc.UpdateDay(ctx, input(plan.ID))
		require.ErrorIs(t, err, errStoreDown)

		stored, err := repo.GetByID(ctx, plan.ID)
		require.NoError(t, err)
		friday := stored.Schedule[domain.Friday]
		assert.Equal(t, "12:00", friday.EatingStart.String())
		assert.True(t, friday.Active)
		assert.Equal(t, 1, stored.Version)
		queue.AssertNumberOfCalls(t, "Enqueue", 1)

		updated, err := svc.UpdateDay(ctx, input(plan.ID))
		require.NoError(t, err)
		assert.Equal(t, "10:00", updated.Schedule[domain.Friday].EatingStart.String())
	})
}

func TestPlanService_ActivateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	first, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "First"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "Second"})
	require.NoError(t, err)

	_, err = svc.Active(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	plans, err := svc.Activate(ctx, "user-1", second.ID)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	activeCount := 0
	for _, p := range plans {
		if p.IsActive() {
			activeCount++
			assert.Equal(t, second.ID, p.ID)
		}
	}
	assert.Equal(t, 1, activeCount)

	active, err := svc.Active(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	require.NoError(t, svc.Delete(ctx, "user-1", second.ID))

	_, err = svc.Active(ctx, "user-1")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	remaining, err := svc.ListByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, first.ID, remaining[0].ID)
	assert.False(t, remaining[0].IsActive())
}

func TestPlanService_DuplicateAndSummary(t *testing.T) {
	ctx := context.Background()
	svc, _, queue := newTestService(t)

	plan, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "Base", Template: "18-6"})
	require.NoError(t, err)

	dup, err := svc.Duplicate(ctx, "user-1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Base (Copy)", dup.Name)
	queue.AssertCalled(t, "Enqueue", dup.ID)

	_, err = svc.UpdateDay(ctx, services.UpdateDayInput{ID: dup.ID, UserID: "user-1", Day: "sunday", Active: ptr(false)})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "user-1", dup.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, summary.ActiveDays)
	assert.Equal(t, 108.0, summary.TotalFastingHours)
	assert.Equal(t, 18.0, summary.AverageFastingHours)

	original, err := svc.Summary(ctx, "user-1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, original.ActiveDays)
}

func TestPlanService_GetDelta(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	old, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "Old"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	checkpoint := time.Now().UTC()
	time.Sleep(10 * time.Millisecond)

	fresh, err := svc.Create(ctx, services.CreatePlanInput{UserID: "user-1", Name: "Fresh"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "user-1", old.ID))

	changes, err := svc.GetDelta(ctx, "user-1", checkpoint)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	ids := map[string]bool{}
	for _, p := range changes {
		ids[p.ID] = p.IsDeleted()
	}
	assert.False(t, ids[fresh.ID])
	assert.True(t, ids[old.ID])
}

func TestPlanService_Templates(t *testing.T) {
	svc, _, _ := newTestService(t)

	templates := svc.Templates()
	require.Len(t, templates, 4)
	assert.Equal(t, "16-8", templates[0].Slug)
}
