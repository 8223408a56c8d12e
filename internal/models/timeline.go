package models

import "time"

// TimelineEntry is one non-overlapping interval of the day
type TimelineEntry struct {
	Start        time.Time   `json:"start"`
	End          time.Time   `json:"end"`
	Label        string      `json:"label"`
	Kind         LabelKind   `json:"kind"`
	Confidence   float64     `json:"confidence"`
	LocationID   string      `json:"locationId,omitempty"`
	Category     string      `json:"category,omitempty"`
	ActivityType string      `json:"activityType,omitempty"`
	Likelihood   Likelihood  `json:"likelihood,omitempty"`
	Evidence     []Criterion `json:"evidence,omitempty"`
}

// Duration returns the entry's span
func (e TimelineEntry) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// LabelShare is the fraction of the timeline spent under one label
type LabelShare struct {
	Kind    LabelKind `json:"kind"`
	Label   string    `json:"label"`
	Seconds float64   `json:"seconds"`
	Percent float64   `json:"percent"`
}

// Timeline is the exhaustive partition of a span into labelled entries
type Timeline struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
	Entries []TimelineEntry `json:"entries"`
	Shares  []LabelShare    `json:"shares"`
}
