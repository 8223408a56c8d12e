package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"00:00", 0, true},
		{"07:30", 7*time.Hour + 30*time.Minute, true},
		{"23:59", 23*time.Hour + 59*time.Minute, true},
		{"24:00", 24 * time.Hour, true},
		{"24:59", 0, false},
		{"25:00", 0, false},
		{"12:60", 0, false},
		{"7", 0, false},
		{"ab:cd", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseClock(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestScheduleWindowRejectsBadEnd(t *testing.T) {
	w := ScheduleWindow{Start: "22:00", End: "24:59"}
	assert.False(t, w.Contains(time.Date(2024, 3, 4, 23, 0, 0, 0, time.UTC)))

	w.End = "24:00"
	assert.True(t, w.Contains(time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC)))
}

func TestActivityDefinitionInSchedule(t *testing.T) {
	monday := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)

	var def ActivityDefinition
	assert.True(t, def.InSchedule(monday))

	def.Schedule = []ScheduleWindow{
		{Weekdays: []time.Weekday{time.Saturday}, Start: "06:00", End: "08:00"},
		{Weekdays: []time.Weekday{time.Monday}, Start: "06:30", End: "07:30"},
	}
	assert.True(t, def.InSchedule(monday))
	assert.False(t, def.InSchedule(monday.Add(time.Hour)))
	assert.False(t, def.InSchedule(monday.AddDate(0, 0, 1)))
}
