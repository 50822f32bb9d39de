package domain

import (
	"strings"
)

// WindowField names one bound of an eating window.
type WindowField string

const (
	FieldEatingStart WindowField = "eating_start"
	FieldEatingEnd   WindowField = "eating_end"
)

func ParseWindowField(s string) (WindowField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eating_start", "eatingstart", "start", "start_time":
		return FieldEatingStart, nil
	case "eating_end", "eatingend", "end", "end_time":
		return FieldEatingEnd, nil
	default:
		return "", ErrInvalidWindowField
	}
}

// Template is a single eating window applied to every day of a plan.
type Template struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	EatingStart TimeOfDay `json:"eating_start"`
	EatingEnd   TimeOfDay `json:"eating_end"`
}

func NewTemplate(start, end string) (Template, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Template{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Template{}, err
	}
	return Template{Slug: "custom", Name: "Custom", EatingStart: s, EatingEnd: e}, nil
}

func (t Template) Validate() error {
	if !t.EatingStart.Valid() || !t.EatingEnd.Valid() {
		return ErrInvalidTimeOfDay
	}
	return nil
}

func (t Template) FastingHours() float64 {
	return ComputeFastingHours(t.EatingStart, t.EatingEnd)
}

var quickTemplates = []Template{
	{Slug: "16-8", Name: "16:8 Standard", EatingStart: MustTimeOfDay("12:00"), EatingEnd: MustTimeOfDay("20:00")},
	{Slug: "18-6", Name: "18:6 Focused", EatingStart: MustTimeOfDay("14:00"), EatingEnd: MustTimeOfDay("20:00")},
	{Slug: "20-4", Name: "20:4 Warrior", EatingStart: MustTimeOfDay("16:00"), EatingEnd: MustTimeOfDay("20:00")},
	{Slug: "omad", Name: "OMAD", EatingStart: MustTimeOfDay("18:00"), EatingEnd: MustTimeOfDay("19:00")},
}

// QuickTemplates returns the built-in templates. The slice is a copy.
func QuickTemplates() []Template {
	out := make([]Template, len(quickTemplates))
	copy(out, quickTemplates)
	return out
}

func LookupTemplate(slug string) (Template, error) {
	key := strings.ToLower(strings.TrimSpace(slug))
	for _, t := range quickTemplates {
		if t.Slug == key {
			return t, nil
		}
	}
	return Template{}, ErrUnknownTemplate
}
