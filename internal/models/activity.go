package models

import (
	"strconv"
	"strings"
	"time"
)

// ScheduleWindow is a weekly local-time window, e.g. Mon-Fri 05:00-11:00
type ScheduleWindow struct {
	Weekdays []time.Weekday `json:"weekdays"`
	Start    string         `json:"start"` // HH:MM local time
	End      string         `json:"end"`   // HH:MM local time, exclusive
}

// Contains reports whether t falls inside the window in t's own location
func (w ScheduleWindow) Contains(t time.Time) bool {
	if len(w.Weekdays) > 0 {
		found := false
		for _, d := range w.Weekdays {
			if d == t.Weekday() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	start, ok1 := ParseClock(w.Start)
	end, ok2 := ParseClock(w.End)
	if !ok1 || !ok2 {
		return false
	}
	tod := SinceMidnight(t)
	return tod >= start && tod < end
}

// Bounds returns the window's start and end on the calendar day of t
func (w ScheduleWindow) Bounds(t time.Time) (time.Time, time.Time) {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start, _ := ParseClock(w.Start)
	end, _ := ParseClock(w.End)
	return midnight.Add(start), midnight.Add(end)
}

// ParseClock parses "HH:MM" into an offset from midnight
func ParseClock(s string) (time.Duration, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, false
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, true
}

// SinceMidnight returns the local time-of-day of t
func SinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// ActivityDefinition configures one detector instance
type ActivityDefinition struct {
	ID                 string           `json:"id" db:"id"`
	Name               string           `json:"name" db:"name"`
	Kind               string           `json:"kind" db:"kind"`                   // commute, visit, parkrun, golf
	ActivityType       string           `json:"activityType" db:"activity_type"` // Label emitted on the timeline
	Schedule           []ScheduleWindow `json:"schedule,omitempty"`
	Participants       []string         `json:"participants,omitempty"`
	LocationIDs        []string         `json:"locationIds,omitempty"`
	LocationCategories []string         `json:"locationCategories,omitempty"`
	VelocityBands      []VelocityBand   `json:"velocityBands,omitempty"` // Expected dominant bands, empty = any
	MinDurationSeconds int64            `json:"minDurationSeconds,omitempty"`
	MaxDurationSeconds int64            `json:"maxDurationSeconds,omitempty"` // 0 = unbounded
}

// MinDuration returns the lower duration bound
func (d ActivityDefinition) MinDuration() time.Duration {
	return time.Duration(d.MinDurationSeconds) * time.Second
}

// MaxDuration returns the upper duration bound, 0 when unbounded
func (d ActivityDefinition) MaxDuration() time.Duration {
	return time.Duration(d.MaxDurationSeconds) * time.Second
}

// InSchedule reports whether t falls in any schedule window. No windows means always.
func (d ActivityDefinition) InSchedule(t time.Time) bool {
	if len(d.Schedule) == 0 {
		return true
	}
	for _, w := range d.Schedule {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

// Likelihood is the coarse grade of a detected activity
type Likelihood string

const (
	LikelihoodLow    Likelihood = "LOW"
	LikelihoodMedium Likelihood = "MEDIUM"
	LikelihoodHigh   Likelihood = "HIGH"
)

// Criterion is one piece of evidence behind a detection
type Criterion struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Observed string `json:"observed"`
	Expected string `json:"expected"`
}

// ActivityCandidate is a detector's claim that an activity happened
type ActivityCandidate struct {
	ActivityType string        `json:"activityType"`
	Detector     string        `json:"detector"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	Confidence   float64       `json:"confidence"` // 0-1
	Likelihood   Likelihood    `json:"likelihood"`
	Evidence     []Criterion   `json:"evidence"`
	SessionIDs   []string      `json:"sessionIds,omitempty"`
	Participants []string      `json:"participants,omitempty"`
	LocationID   string        `json:"locationId,omitempty"`
	Specificity  time.Duration `json:"-"` // Width of the detector's duration bounds, narrower wins ties
}

// Duration returns the candidate's time span
func (c ActivityCandidate) Duration() time.Duration {
	return c.End.Sub(c.Start)
}
