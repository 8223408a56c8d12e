package models

import "time"

// AnalysisRun records one pipeline execution over a day or a trip
type AnalysisRun struct {
	ID string `json:"id" db:"id"` // UUID

	// Scope
	Scope  string `json:"scope" db:"scope"`             // DAY, TRIP
	Date   string `json:"date,omitempty" db:"date"`     // YYYY-MM-DD for DAY runs
	TripID string `json:"tripId,omitempty" db:"trip_id"` // Trip ID for TRIP runs

	// Results
	Status          string `json:"status" db:"status"`
	PointCount      int    `json:"pointCount" db:"point_count"`
	EntryCount      int    `json:"entryCount" db:"entry_count"`
	DiagnosticsJSON string `json:"diagnosticsJson,omitempty" db:"diagnostics_json"` // JSON array of diagnostics
	ErrorMessage    string `json:"errorMessage,omitempty" db:"error_message"`

	// Metadata
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Run scopes
const (
	RunScopeDay  = "DAY"
	RunScopeTrip = "TRIP"
)

// Run status constants
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
