package foundation

import (
	"fmt"

	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
	"github.com/gavraq/location-timeline/internal/spatial"
)

// VelocityClassifier assigns a velocity and band to each point
type VelocityClassifier struct {
	Thresholds params.VelocityBandThresholds
}

// NewVelocityClassifier creates a classifier with the given band thresholds
func NewVelocityClassifier(thresholds params.VelocityBandThresholds) *VelocityClassifier {
	return &VelocityClassifier{Thresholds: thresholds}
}

// Band maps a velocity in m/s to its band. Bounds are closed-open.
func (c *VelocityClassifier) Band(v float64) models.VelocityBand {
	switch {
	case v < 0:
		return models.BandUnknown
	case v < c.Thresholds.StationaryMaxMPS:
		return models.BandStationary
	case v < c.Thresholds.WalkingMaxMPS:
		return models.BandWalking
	case v < c.Thresholds.RunningMaxMPS:
		return models.BandRunning
	case v < c.Thresholds.CyclingMaxMPS:
		return models.BandCycling
	default:
		return models.BandDriving
	}
}

// Classify fills Velocity, HasVelocity and Band in place.
// A point's velocity is measured to the next point; the last point inherits
// the velocity of the pair ending at it. A non-positive elapsed time leaves
// the point Unknown and records a diagnostic.
func (c *VelocityClassifier) Classify(points []models.ClassifiedPoint, diags *models.Diagnostics) {
	n := len(points)
	if n < 2 {
		for i := range points {
			points[i].Band = models.BandUnknown
		}
		return
	}

	for i := 0; i < n-1; i++ {
		a, b := points[i], points[i+1]
		elapsed := b.Timestamp.Sub(a.Timestamp).Seconds()
		if elapsed <= 0 {
			points[i].HasVelocity = false
			points[i].Velocity = 0
			points[i].Band = models.BandUnknown
			diags.AddAt(models.SeverityWarning, models.DiagNonPositiveElapsed,
				fmt.Sprintf("skipped velocity: %.0fs elapsed to next point", elapsed), a.Timestamp)
			continue
		}
		dist := spatial.HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
		v := dist / elapsed
		points[i].Velocity = v
		points[i].HasVelocity = true
		points[i].Band = c.Band(v)
	}

	last := &points[n-1]
	prev := points[n-2]
	last.Velocity = prev.Velocity
	last.HasVelocity = prev.HasVelocity
	last.Band = prev.Band
}
