package domain

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxPlanNameLen = 100
	MaxPlanDescLen = 500
	CopySuffix     = " (Copy)"
)

// Default window for freshly created plans: the classic 16:8.
var (
	DefaultEatingStart = MustTimeOfDay("12:00")
	DefaultEatingEnd   = MustTimeOfDay("20:00")
)

// SchedulePlan is a named weekly fasting schedule owned by one user.
//
// The active flag can only be turned on through SetActivePlan, which turns it
// off on every sibling in the same call.
type SchedulePlan struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Schedule    WeeklySchedule

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	active bool
}

type schedulePlanJSON struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Schedule    WeeklySchedule `json:"schedule"`
	IsActive    bool           `json:"is_active"`
	Version     int            `json:"version"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}

func NewSchedulePlan(userID, name, description string) (*SchedulePlan, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrPlanInvalidUserID
	}

	cleanName, cleanDesc, err := validateNaming(name, description)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &SchedulePlan{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        cleanName,
		Description: cleanDesc,
		Schedule:    UniformSchedule(DefaultEatingStart, DefaultEatingEnd),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// RestoreSchedulePlan rebuilds a plan read back from storage, including its
// persisted active flag.
func RestoreSchedulePlan(p SchedulePlan, active bool) *SchedulePlan {
	p.active = active
	p.Schedule.recomputeAll()
	return &p
}

// DecodeSchedulePlan parses a plan in its JSON wire shape and validates it.
func DecodeSchedulePlan(data []byte) (*SchedulePlan, error) {
	var p SchedulePlan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func validateNaming(name, description string) (string, string, error) {
	cleanName := strings.TrimSpace(name)
	if cleanName == "" {
		return "", "", ErrPlanNameEmpty
	}
	if utf8.RuneCountInString(cleanName) > MaxPlanNameLen {
		return "", "", ErrPlanNameTooLong
	}

	cleanDesc := strings.TrimSpace(description)
	if utf8.RuneCountInString(cleanDesc) > MaxPlanDescLen {
		return "", "", ErrPlanDescTooLong
	}

	return cleanName, cleanDesc, nil
}

func (p *SchedulePlan) Validate() error {
	if _, _, err := validateNaming(p.Name, p.Description); err != nil {
		return err
	}
	return p.Schedule.Validate()
}

func (p *SchedulePlan) IsActive() bool {
	return p.active
}

func (p *SchedulePlan) IsDeleted() bool {
	return p.DeletedAt != nil
}

func (p *SchedulePlan) touch() {
	p.UpdatedAt = time.Now().UTC()
}

func (p *SchedulePlan) Rename(name, description string) error {
	cleanName, cleanDesc, err := validateNaming(name, description)
	if err != nil {
		return err
	}

	p.Name = cleanName
	p.Description = cleanDesc
	p.touch()
	return nil
}

// ReplaceSchedule swaps in a whole week, as submitted by an edit form.
func (p *SchedulePlan) ReplaceSchedule(s WeeklySchedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.recomputeAll()

	p.Schedule = s
	p.touch()
	return nil
}

// ApplyTemplate overwrites the eating window of all seven days. Per-day active
// flags are kept.
func (p *SchedulePlan) ApplyTemplate(t Template) error {
	if err := t.Validate(); err != nil {
		return err
	}

	for i := range p.Schedule {
		day := &p.Schedule[i]
		day.EatingStart = t.EatingStart
		day.EatingEnd = t.EatingEnd
		day.recompute()
	}
	p.touch()
	return nil
}

// UpdateDayWindow changes one bound of one day's eating window. Only that day's
// fasting hours are recomputed.
func (p *SchedulePlan) UpdateDayWindow(day Weekday, field WindowField, value string) error {
	target, err := p.Schedule.Day(day)
	if err != nil {
		return err
	}

	t, err := ParseTimeOfDay(strings.TrimSpace(value))
	if err != nil {
		return err
	}

	switch field {
	case FieldEatingStart:
		target.EatingStart = t
	case FieldEatingEnd:
		target.EatingEnd = t
	default:
		return ErrInvalidWindowField
	}

	target.recompute()
	p.touch()
	return nil
}

// SetDayActive marks a day as tracked or as a rest day.
func (p *SchedulePlan) SetDayActive(day Weekday, active bool) error {
	target, err := p.Schedule.Day(day)
	if err != nil {
		return err
	}

	target.Active = active
	p.touch()
	return nil
}

// Duplicate returns an inactive copy with a fresh identity. The receiver is not
// modified.
func (p *SchedulePlan) Duplicate() *SchedulePlan {
	now := time.Now().UTC()

	return &SchedulePlan{
		ID:          uuid.New().String(),
		UserID:      p.UserID,
		Name:        p.Name + CopySuffix,
		Description: p.Description,
		Schedule:    p.Schedule,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *SchedulePlan) Deactivate() {
	if !p.active {
		return
	}
	p.active = false
	p.touch()
}

// MarkDeleted soft-deletes the plan. A deleted plan is never active and no
// sibling is promoted in its place.
func (p *SchedulePlan) MarkDeleted() {
	if p.DeletedAt != nil {
		return
	}
	now := time.Now().UTC()
	p.active = false
	p.DeletedAt = &now
	p.UpdatedAt = now
}

func (p *SchedulePlan) Summary() WeeklySummary {
	return Summarize(p.Schedule)
}

// SetActivePlan activates the plan with planID and deactivates every other plan
// in the collection. When planID is absent nothing is changed.
func SetActivePlan(planID string, plans []*SchedulePlan) error {
	found := false
	for _, p := range plans {
		if p.ID == planID && !p.IsDeleted() {
			found = true
			break
		}
	}
	if !found {
		return ErrPlanNotFound
	}

	for _, p := range plans {
		want := p.ID == planID
		if p.active != want {
			p.active = want
			p.touch()
		}
	}
	return nil
}

// ActivePlan returns the active plan of the collection, or nil.
func ActivePlan(plans []*SchedulePlan) *SchedulePlan {
	for _, p := range plans {
		if p.active {
			return p
		}
	}
	return nil
}

func (p SchedulePlan) MarshalJSON() ([]byte, error) {
	return json.Marshal(schedulePlanJSON{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		Schedule:    p.Schedule,
		IsActive:    p.active,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		DeletedAt:   p.DeletedAt,
	})
}

func (p *SchedulePlan) UnmarshalJSON(b []byte) error {
	var raw schedulePlanJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*p = SchedulePlan{
		ID:          raw.ID,
		UserID:      raw.UserID,
		Name:        raw.Name,
		Description: raw.Description,
		Schedule:    raw.Schedule,
		Version:     raw.Version,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
		DeletedAt:   raw.DeletedAt,
		active:      raw.IsActive,
	}
	return nil
}
