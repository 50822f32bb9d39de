package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/domain"
)

var _ domain.PlanRepository = (*CachedPlanRepository)(nil)

const DefaultPlanCacheTTL = 30 * time.Minute

func planListKey(userID string) string {
	return "plans:" + userID
}

// CachedPlanRepository keeps each user's plan list in Redis. Reads fall back
// to the wrapped store on a miss or a Redis error, and every successful write
// drops the owner's list.
type CachedPlanRepository struct {
	next   domain.PlanRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedPlanRepository(next domain.PlanRepository, rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedPlanRepository {
	if ttl <= 0 {
		ttl = DefaultPlanCacheTTL
	}
	return &CachedPlanRepository{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With().Str("component", "plan_cache").Logger(),
	}
}

// lookup reports whether a usable list was found under the user's key.
// Entries that no longer decode are removed.
func (r *CachedPlanRepository) lookup(ctx context.Context, userID string) ([]*domain.SchedulePlan, bool) {
	raw, err := r.rdb.Get(ctx, planListKey(userID)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("plan list read failed")
		return nil, false
	}

	var plans []*domain.SchedulePlan
	if err := json.Unmarshal(raw, &plans); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("dropping undecodable plan list")
		r.drop(ctx, userID)
		return nil, false
	}
	return plans, true
}

func (r *CachedPlanRepository) remember(ctx context.Context, userID string, plans []*domain.SchedulePlan) {
	raw, err := json.Marshal(plans)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("plan list not cacheable")
		return
	}
	if err := r.rdb.Set(ctx, planListKey(userID), raw, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("plan list write failed")
	}
}

func (r *CachedPlanRepository) drop(ctx context.Context, userID string) {
	if err := r.rdb.Del(ctx, planListKey(userID)).Err(); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("plan list invalidation failed")
	}
}

// written drops userID's list when the store accepted the write and passes
// err through unchanged.
func (r *CachedPlanRepository) written(ctx context.Context, userID string, err error) error {
	if err == nil {
		r.drop(ctx, userID)
	}
	return err
}

func (r *CachedPlanRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.SchedulePlan, error) {
	if plans, ok := r.lookup(ctx, userID); ok {
		return plans, nil
	}

	plans, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.remember(ctx, userID, plans)
	return plans, nil
}

func (r *CachedPlanRepository) GetByID(ctx context.Context, id string) (*domain.SchedulePlan, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedPlanRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.SchedulePlan, error) {
	return r.next.GetChanges(ctx, userID, since)
}

func (r *CachedPlanRepository) Create(ctx context.Context, plan *domain.SchedulePlan) error {
	return r.written(ctx, plan.UserID, r.next.Create(ctx, plan))
}

func (r *CachedPlanRepository) Update(ctx context.Context, plan *domain.SchedulePlan) error {
	return r.written(ctx, plan.UserID, r.next.Update(ctx, plan))
}

func (r *CachedPlanRepository) Activate(ctx context.Context, userID, planID string) error {
	return r.written(ctx, userID, r.next.Activate(ctx, userID, planID))
}

func (r *CachedPlanRepository) Delete(ctx context.Context, userID, id string) error {
	return r.written(ctx, userID, r.next.Delete(ctx, userID, id))
}

// UpdateSummary leaves the list alone: summaries are not part of the cached
// plan payload.
func (r *CachedPlanRepository) UpdateSummary(ctx context.Context, id string, summary domain.WeeklySummary) error {
	return r.next.UpdateSummary(ctx, id, summary)
}
