package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every concrete domain error wraps exactly one of them so callers
// can branch on the kind with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

var (
	ErrInvalidTimeOfDay   = fmt.Errorf("%w: invalid time of day (must be HH:MM 24h)", ErrValidation)
	ErrInvalidWeekday     = fmt.Errorf("%w: invalid day of week (must be monday-sunday)", ErrValidation)
	ErrMissingDay         = fmt.Errorf("%w: schedule must contain all seven days", ErrValidation)
	ErrPlanNameEmpty      = fmt.Errorf("%w: plan name cannot be empty", ErrValidation)
	ErrPlanNameTooLong    = fmt.Errorf("%w: plan name is too long (max 100 chars)", ErrValidation)
	ErrPlanDescTooLong    = fmt.Errorf("%w: plan description is too long (max 500 chars)", ErrValidation)
	ErrPlanInvalidUserID  = fmt.Errorf("%w: invalid user id", ErrValidation)
	ErrInvalidWindowField = fmt.Errorf("%w: field must be eating_start or eating_end", ErrValidation)
	ErrUnknownTemplate    = fmt.Errorf("%w: unknown schedule template", ErrValidation)

	ErrPlanNotFound = fmt.Errorf("plan %w", ErrNotFound)
)

var ErrPlanConflict = errors.New("plan version conflict")
