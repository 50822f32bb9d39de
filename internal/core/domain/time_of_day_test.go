package domain_test

import (
	"testing"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseTimeOfDay(t *testing.T) {
	valid := map[string]string{
		"00:00": "00:00",
		"7:05":  "07:05",
		"12:30": "12:30",
		"23:59": "23:59",
	}
	for in, want := range valid {
		got, err := domain.ParseTimeOfDay(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}

	invalid := []string{"", "24:00", "12:60", "12", "12:5", "noon", "12:00:00", " 12:00", "-1:00"}
	for _, in := range invalid {
		_, err := domain.ParseTimeOfDay(in)
		assert.ErrorIs(t, err, domain.ErrInvalidTimeOfDay, in)
		assert.ErrorIs(t, err, domain.ErrValidation, in)
	}
}

func TestParseWeekday(t *testing.T) {
	d, err := domain.ParseWeekday("Wednesday")
	assert.NoError(t, err)
	assert.Equal(t, domain.Wednesday, d)

	_, err = domain.ParseWeekday("someday")
	assert.ErrorIs(t, err, domain.ErrInvalidWeekday)

	assert.Len(t, domain.AllWeekdays(), domain.DaysInWeek)
	assert.Equal(t, "invalid", domain.Weekday(9).String())
}

func TestNewTimeOfDay(t *testing.T) {
	got, err := domain.NewTimeOfDay(9, 15)
	assert.NoError(t, err)
	assert.Equal(t, "09:15", got.String())

	_, err = domain.NewTimeOfDay(24, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidTimeOfDay)
}
