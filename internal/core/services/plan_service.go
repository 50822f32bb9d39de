package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fasting-planner/internal/metrics"
)

// SummaryQueue receives plans whose weekly summary must be recomputed.
type SummaryQueue interface {
	Enqueue(planID string)
}

type PlanService struct {
	repo   domain.PlanRepository
	worker SummaryQueue
}

func NewPlanService(repo domain.PlanRepository, worker SummaryQueue) *PlanService {
	return &PlanService{
		repo:   repo,
		worker: worker,
	}
}

type CreatePlanInput struct {
	UserID      string
	Name        string
	Description string
	Schedule    *domain.WeeklySchedule
	Template    string
}

// UpdatePlanInput leaves a field unchanged when its pointer is nil. An empty
// Description clears it.
type UpdatePlanInput struct {
	ID          string
	UserID      string
	Name        *string
	Description *string
	Schedule    *domain.WeeklySchedule
	Version     int
}

type ApplyTemplateInput struct {
	ID          string
	UserID      string
	Template    string
	EatingStart string
	EatingEnd   string
}

type UpdateDayInput struct {
	ID     string
	UserID string
	Day    string
	Field  string
	Value  string
	Active *bool
}

func valueOr(newVal *string, oldVal string) string {
	if newVal == nil {
		return oldVal
	}
	return *newVal
}

func (s *PlanService) open(ctx context.Context, userID string) (*PlanBook, error) {
	return OpenPlanBook(ctx, s.repo, userID)
}

func (s *PlanService) enqueue(planID string) {
	if s.worker != nil {
		s.worker.Enqueue(planID)
	}
}

func (s *PlanService) Templates() []domain.Template {
	return domain.QuickTemplates()
}

func resolveTemplate(slug, start, end string) (domain.Template, error) {
	if slug != "" {
		return domain.LookupTemplate(slug)
	}
	return domain.NewTemplate(start, end)
}

func (s *PlanService) Create(ctx context.Context, input CreatePlanInput) (*domain.SchedulePlan, error) {
	if input.Schedule != nil && input.Template != "" {
		return nil, fmt.Errorf("%w: template and schedule are mutually exclusive", domain.ErrValidation)
	}

	book, err := s.open(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	schedule := input.Schedule
	if input.Template != "" {
		tmpl, err := domain.LookupTemplate(input.Template)
		if err != nil {
			return nil, err
		}
		week := domain.UniformSchedule(tmpl.EatingStart, tmpl.EatingEnd)
		schedule = &week
	}

	plan, err := book.Create(ctx, input.Name, input.Description, schedule)
	metrics.IncPlanMutation("create", err)
	if err != nil {
		return nil, err
	}

	s.enqueue(plan.ID)
	return plan, nil
}

func (s *PlanService) ListByUserID(ctx context.Context, userID string) ([]*domain.SchedulePlan, error) {
	book, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return book.Plans(), nil
}

func (s *PlanService) Get(ctx context.Context, userID, id string) (*domain.SchedulePlan, error) {
	book, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}
	return book.Find(id)
}

func (s *PlanService) Active(ctx context.Context, userID string) (*domain.SchedulePlan, error) {
	book, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := book.Active()
	if active == nil {
		return nil, fmt.Errorf("no active plan: %w", domain.ErrPlanNotFound)
	}
	return active, nil
}

func (s *PlanService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.SchedulePlan, error) {
	return s.repo.GetChanges(ctx, userID, lastSync)
}

func (s *PlanService) Summary(ctx context.Context, userID, id string) (domain.WeeklySummary, error) {
	plan, err := s.Get(ctx, userID, id)
	if err != nil {
		return domain.WeeklySummary{}, err
	}
	return plan.Summary(), nil
}

func (s *PlanService) Update(ctx context.Context, input UpdatePlanInput) (*domain.SchedulePlan, error) {
	book, err := s.open(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	existing, err := book.Find(input.ID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrPlanConflict, input.Version, existing.Version)
	}

	name := valueOr(input.Name, existing.Name)
	desc := valueOr(input.Description, existing.Description)

	plan, err := book.Edit(ctx, input.ID, name, desc, input.Schedule)
	metrics.IncPlanMutation("update", err)
	if err != nil {
		return nil, err
	}

	s.enqueue(plan.ID)
	return plan, nil
}

func (s *PlanService) ApplyTemplate(ctx context.Context, input ApplyTemplateInput) (*domain.SchedulePlan, error) {
	tmpl, err := resolveTemplate(input.Template, input.EatingStart, input.EatingEnd)
	if err != nil {
		return nil, err
	}

	book, err := s.open(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	plan, err := book.ApplyTemplate(ctx, input.ID, tmpl)
	metrics.IncPlanMutation("apply_template", err)
	if err != nil {
		return nil, err
	}

	s.enqueue(plan.ID)
	return plan, nil
}

// UpdateDay edits one day of a plan: a window bound when Field is set, the
// rest-day flag when Active is set, or both.
func (s *PlanService) UpdateDay(ctx context.Context, input UpdateDayInput) (*domain.SchedulePlan, error) {
	day, err := domain.ParseWeekday(input.Day)
	if err != nil {
		return nil, err
	}

	if input.Field == "" && input.Active == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}

	var field *domain.WindowField
	if input.Field != "" {
		parsed, err := domain.ParseWindowField(input.Field)
		if err != nil {
			return nil, err
		}
		field = &parsed
	}

	book, err := s.open(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	plan, err := book.UpdateDay(ctx, input.ID, day, field, input.Value, input.Active)
	metrics.IncPlanMutation("update_day", err)
	if err != nil {
		return nil, err
	}

	s.enqueue(plan.ID)
	return plan, nil
}

// Activate makes id the user's only active plan and returns the whole
// collection as it stands afterwards.
func (s *PlanService) Activate(ctx context.Context, userID, id string) ([]*domain.SchedulePlan, error) {
	book, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}

	_, err = book.SetActive(ctx, id)
	metrics.IncPlanMutation("activate", err)
	if err != nil {
		return nil, err
	}

	return book.Plans(), nil
}

func (s *PlanService) Duplicate(ctx context.Context, userID, id string) (*domain.SchedulePlan, error) {
	book, err := s.open(ctx, userID)
	if err != nil {
		return nil, err
	}

	dup, err := book.Duplicate(ctx, id)
	metrics.IncPlanMutation("duplicate", err)
	if err != nil {
		return nil, err
	}

	s.enqueue(dup.ID)
	return dup, nil
}

func (s *PlanService) Delete(ctx context.Context, userID, id string) error {
	book, err := s.open(ctx, userID)
	if err != nil {
		return err
	}

	err = book.Delete(ctx, id)
	metrics.IncPlanMutation("delete", err)
	return err
}
