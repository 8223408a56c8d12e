package foundation

import (
	"fmt"
	"sort"
	"time"

	"github.com/gavraq/location-timeline/internal/models"
)

// Sanitize validates raw points and returns a chronologically ordered copy.
// Points outside [dayStart, dayEnd) are dropped when the span is set.
// The input slice is never modified.
func Sanitize(points []models.LocationPoint, dayStart, dayEnd time.Time, diags *models.Diagnostics) []models.LocationPoint {
	out := make([]models.LocationPoint, 0, len(points))
	outOfDay := 0

	for _, p := range points {
		// Rule 1: INVALID_COORDINATE - latitude or longitude off the globe
		if !p.ValidCoordinates() {
			diags.AddAt(models.SeverityWarning, models.DiagInvalidCoordinate,
				fmt.Sprintf("dropped point with invalid coordinates (%.6f, %.6f)", p.Latitude, p.Longitude),
				p.Timestamp)
			continue
		}

		// Rule 2: OUT_OF_DAY - belongs to another calendar day
		if !dayStart.IsZero() && !dayEnd.IsZero() &&
			(p.Timestamp.Before(dayStart) || !p.Timestamp.Before(dayEnd)) {
			outOfDay++
			continue
		}

		out = append(out, p)
	}

	if outOfDay > 0 {
		diags.Add(models.SeverityInfo, models.DiagOutOfDay,
			fmt.Sprintf("ignored %d points outside the requested day", outOfDay))
	}

	// Rule 3: ANOMALOUS_ORDERING - input not in timestamp order
	inversions := 0
	for i := 1; i < len(out); i++ {
		if out[i].Timestamp.Before(out[i-1].Timestamp) {
			inversions++
		}
	}
	if inversions > 0 {
		diags.Add(models.SeverityWarning, models.DiagAnomalousOrdering,
			fmt.Sprintf("input contained %d out-of-order points and was sorted", inversions))
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Timestamp.Before(out[j].Timestamp)
		})
	}

	return out
}
