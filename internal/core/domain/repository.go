package domain

import (
	"context"
	"time"
)

type PlanRepository interface {
	// Create persists a new plan. The plan is stored inactive.
	Create(ctx context.Context, plan *SchedulePlan) error

	// GetByID retrieves a non-deleted plan by its unique identifier.
	GetByID(ctx context.Context, id string) (*SchedulePlan, error)

	// ListByUserID retrieves all non-deleted plans of a user, oldest first.
	ListByUserID(ctx context.Context, userID string) ([]*SchedulePlan, error)

	// Update saves name, description and schedule.
	// Implementations must check the version to detect concurrent writers.
	Update(ctx context.Context, plan *SchedulePlan) error

	// Activate makes planID the only active plan of userID in one atomic step.
	// Activation touches updated_at but leaves versions alone.
	Activate(ctx context.Context, userID, planID string) error

	// Delete soft-deletes a plan owned by userID. Its active flag is cleared.
	// A plan of another user is reported as ErrPlanNotFound.
	Delete(ctx context.Context, userID, id string) error

	// GetChanges [SYNC] Returns plans created, updated or deleted after since.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*SchedulePlan, error)

	UpdateSummary(ctx context.Context, id string, summary WeeklySummary) error
}
