package models

import "time"

// Severity levels
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Diagnostic codes
const (
	DiagNoData             = "NO_DATA"
	DiagInvalidCoordinate  = "INVALID_COORDINATE"
	DiagAnomalousOrdering  = "ANOMALOUS_ORDERING"
	DiagNonPositiveElapsed = "NON_POSITIVE_ELAPSED"
	DiagOutOfDay           = "OUT_OF_DAY"
	DiagDetectorFailure    = "DETECTOR_FAILURE"
	DiagUnknownDetector    = "UNKNOWN_DETECTOR_KIND"
	DiagDayFailed          = "DAY_FAILED"
)

// Diagnostic records a data-quality or processing condition
type Diagnostic struct {
	Severity  string     `json:"severity"`
	Code      string     `json:"code"`
	Message   string     `json:"message"`
	Date      string     `json:"date,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Diagnostics collects diagnostics during one run
type Diagnostics []Diagnostic

// Add appends a diagnostic without a point timestamp
func (d *Diagnostics) Add(severity, code, message string) {
	*d = append(*d, Diagnostic{Severity: severity, Code: code, Message: message})
}

// AddAt appends a diagnostic tied to a point timestamp
func (d *Diagnostics) AddAt(severity, code, message string, ts time.Time) {
	t := ts
	*d = append(*d, Diagnostic{Severity: severity, Code: code, Message: message, Timestamp: &t})
}

// Has reports whether any diagnostic carries the code
func (d Diagnostics) Has(code string) bool {
	for _, diag := range d {
		if diag.Code == code {
			return true
		}
	}
	return false
}
