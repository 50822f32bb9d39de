package workers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fasting-planner/internal/metrics"
)

type PlanRepository interface {
	GetByID(ctx context.Context, id string) (*domain.SchedulePlan, error)
	UpdateSummary(ctx context.Context, id string, summary domain.WeeklySummary) error
}

type SummaryJob struct {
	PlanID string
}

// SummaryWorker keeps the stored weekly summary of each plan in step with its
// schedule. Jobs are processed one at a time off a bounded queue.
type SummaryWorker struct {
	repo   PlanRepository
	jobs   chan SummaryJob
	logger zerolog.Logger
}

func NewSummaryWorker(repo PlanRepository, logger zerolog.Logger) *SummaryWorker {
	return &SummaryWorker{
		repo:   repo,
		jobs:   make(chan SummaryJob, 100),
		logger: logger.With().Str("component", "summary_worker").Logger(),
	}
}

func (w *SummaryWorker) Start(ctx context.Context) {
	go func() {
		w.logger.Info().Msg("summary worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.logger.Info().Msg("summary worker shutting down")
				return
			}
		}
	}()
}

func (w *SummaryWorker) Enqueue(planID string) {
	select {
	case w.jobs <- SummaryJob{PlanID: planID}:
	default:
		metrics.IncSummaryJob("dropped")
		w.logger.Warn().Str("plan_id", planID).Msg("summary queue full, dropping job")
	}
}

func (w *SummaryWorker) processJob(ctx context.Context, job SummaryJob) {
	plan, err := w.repo.GetByID(ctx, job.PlanID)
	if err != nil {
		metrics.IncSummaryJob("error")
		w.logger.Error().Err(err).Str("plan_id", job.PlanID).Msg("fetch plan failed")
		return
	}

	summary := plan.Summary()

	if err := w.repo.UpdateSummary(ctx, plan.ID, summary); err != nil {
		metrics.IncSummaryJob("error")
		w.logger.Error().Err(err).Str("plan_id", plan.ID).Msg("store summary failed")
		return
	}

	metrics.IncSummaryJob("ok")
	w.logger.Debug().
		Str("plan_id", plan.ID).
		Int("active_days", summary.ActiveDays).
		Float64("avg_fasting_hours", summary.AverageFastingHours).
		Msg("summary updated")
}
