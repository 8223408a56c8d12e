package models

import "time"

// DateLayout is the calendar-day key format used across the pipeline
const DateLayout = "2006-01-02"

// TripContext describes a bounded period away with its own known locations
type TripContext struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	StartDate string          `json:"startDate" db:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string          `json:"endDate" db:"end_date"`     // YYYY-MM-DD, inclusive
	Locations []KnownLocation `json:"locations,omitempty"`

	// Metadata
	CreatedAt time.Time `json:"createdAt,omitempty" db:"created_at"`
}

// Days lists every calendar day of the trip in order
func (t TripContext) Days() ([]string, error) {
	start, err := time.Parse(DateLayout, t.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(DateLayout, t.EndDate)
	if err != nil {
		return nil, err
	}
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days, nil
}

// Contains reports whether the calendar day falls within the trip
func (t TripContext) Contains(day string) bool {
	return day >= t.StartDate && day <= t.EndDate
}

// TripSummary rolls per-day results up to the whole trip
type TripSummary struct {
	TripID              string              `json:"tripId"`
	Days                int                 `json:"days"`
	NoDataDays          []string            `json:"noDataDays"`
	SecondsByCategory   map[string]float64  `json:"secondsByCategory"`
	ActivitiesByDay     map[string][]string `json:"activitiesByDay"`
	MeanTrackedHours    float64             `json:"meanTrackedHours"`
	MedianTrackedHours  float64             `json:"medianTrackedHours"`
	UnclassifiedPercent float64             `json:"unclassifiedPercent"`
}
