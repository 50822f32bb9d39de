package domain

import (
	"encoding/json"
	"fmt"
)

const hoursPerDay = 24.0

// EatingWindowHours returns the length of the eating window that opens at start
// and closes at end. An end at or before start closes on the next calendar day,
// except when both are equal: that window is empty (a full-day fast).
func EatingWindowHours(start, end TimeOfDay) float64 {
	minutes := int(end) - int(start)
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return float64(minutes) / 60
}

// ComputeFastingHours is the complement of EatingWindowHours over a 24h day.
func ComputeFastingHours(start, end TimeOfDay) float64 {
	return hoursPerDay - EatingWindowHours(start, end)
}

// DaySchedule is the eating window for one day of the week. Inactive days are
// rest days and are excluded from weekly aggregates.
type DaySchedule struct {
	Day          Weekday
	EatingStart  TimeOfDay
	EatingEnd    TimeOfDay
	Active       bool
	FastingHours float64
}

func NewDaySchedule(day Weekday, start, end TimeOfDay, active bool) DaySchedule {
	d := DaySchedule{Day: day, EatingStart: start, EatingEnd: end, Active: active}
	d.recompute()
	return d
}

func (d *DaySchedule) recompute() {
	d.FastingHours = ComputeFastingHours(d.EatingStart, d.EatingEnd)
}

func (d DaySchedule) EatingHours() float64 {
	return EatingWindowHours(d.EatingStart, d.EatingEnd)
}

type dayScheduleJSON struct {
	Start        *string  `json:"start"`
	End          *string  `json:"end"`
	Active       *bool    `json:"active,omitempty"`
	FastingHours *float64 `json:"fasting_hours,omitempty"`
}

// WeeklySchedule holds one DaySchedule per weekday, indexed by Weekday. It is a
// value type: assigning it copies every day.
type WeeklySchedule [DaysInWeek]DaySchedule

// UniformSchedule builds a week where every day uses the same window.
func UniformSchedule(start, end TimeOfDay) WeeklySchedule {
	var s WeeklySchedule
	for _, d := range AllWeekdays() {
		s[d] = NewDaySchedule(d, start, end, true)
	}
	return s
}

func (s *WeeklySchedule) Day(d Weekday) (*DaySchedule, error) {
	if !d.Valid() {
		return nil, ErrInvalidWeekday
	}
	return &s[d], nil
}

// Validate checks that every slot holds the day it is indexed by and that its
// times are well formed.
func (s WeeklySchedule) Validate() error {
	for i, day := range s {
		if day.Day != Weekday(i) {
			return fmt.Errorf("%w: slot %d holds %s", ErrMissingDay, i, day.Day)
		}
		if !day.EatingStart.Valid() || !day.EatingEnd.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidTimeOfDay, day.Day)
		}
	}
	return nil
}

func (s *WeeklySchedule) recomputeAll() {
	for i := range s {
		s[i].recompute()
	}
}

func (s WeeklySchedule) MarshalJSON() ([]byte, error) {
	out := make(map[string]dayScheduleJSON, DaysInWeek)
	for _, day := range s {
		start, end := day.EatingStart.String(), day.EatingEnd.String()
		active, hours := day.Active, day.FastingHours
		out[day.Day.String()] = dayScheduleJSON{
			Start:        &start,
			End:          &end,
			Active:       &active,
			FastingHours: &hours,
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the {day: {start, end, active}} shape. All seven days
// are required; fasting hours are always recomputed rather than trusted.
func (s *WeeklySchedule) UnmarshalJSON(b []byte) error {
	var raw map[string]dayScheduleJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: schedule: %v", ErrValidation, err)
	}

	var out WeeklySchedule
	seen := make(map[Weekday]bool, DaysInWeek)

	for key, v := range raw {
		day, err := ParseWeekday(key)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidWeekday, key)
		}
		if v.Start == nil || v.End == nil {
			return fmt.Errorf("%w: %s needs start and end", ErrInvalidTimeOfDay, day)
		}
		start, err := ParseTimeOfDay(*v.Start)
		if err != nil {
			return err
		}
		end, err := ParseTimeOfDay(*v.End)
		if err != nil {
			return err
		}
		active := true
		if v.Active != nil {
			active = *v.Active
		}
		out[day] = NewDaySchedule(day, start, end, active)
		seen[day] = true
	}

	if len(seen) != DaysInWeek {
		return ErrMissingDay
	}

	*s = out
	return nil
}
