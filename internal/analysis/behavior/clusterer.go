package behavior

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
	"github.com/gavraq/location-timeline/internal/spatial"
)

// LabelFunc returns the clustering label of a point; false leaves the point out
type LabelFunc func(p models.ClassifiedPoint) (models.Label, bool)

// CompatibleFunc decides whether two labels may share a session
type CompatibleFunc func(a, b models.Label) bool

// BaselineLabel labels points by location match, then velocity band.
// Unclassified points are left out and do not break a run.
func BaselineLabel(p models.ClassifiedPoint) (models.Label, bool) {
	l := p.Label()
	return l, l.Kind != models.KindUnclassified
}

// SameLabel is the default compatibility rule
func SameLabel(a, b models.Label) bool {
	return a == b
}

// Clusterer groups consecutive points into sessions.
// Two neighbouring points join the same session when their labels are
// compatible and the time between them is within GapTolerance.
type Clusterer struct {
	GapTolerance time.Duration
	MinPoints    int
	MinDuration  time.Duration
	Label        LabelFunc
	Compatible   CompatibleFunc
}

// NewClusterer creates a clusterer with baseline labelling
func NewClusterer(cfg params.ClusterConfig) *Clusterer {
	return &Clusterer{
		GapTolerance: params.Seconds(cfg.GapToleranceS),
		MinPoints:    cfg.MinPoints,
		MinDuration:  params.Seconds(cfg.MinDurationS),
		Label:        BaselineLabel,
		Compatible:   SameLabel,
	}
}

// Cluster returns sessions ordered by start. Points must be in timestamp order.
func (c *Clusterer) Cluster(points []models.ClassifiedPoint) []models.Session {
	labelOf := c.Label
	if labelOf == nil {
		labelOf = BaselineLabel
	}
	compatible := c.Compatible
	if compatible == nil {
		compatible = SameLabel
	}

	var sessions []models.Session
	var run []models.ClassifiedPoint
	var runLabel models.Label

	flush := func() {
		if s, ok := c.finalize(runLabel, run); ok {
			sessions = append(sessions, s)
		}
		run = nil
	}

	for _, p := range points {
		label, ok := labelOf(p)
		if !ok {
			continue
		}

		if len(run) > 0 {
			prev := run[len(run)-1]
			gap := p.Timestamp.Sub(prev.Timestamp)
			if !compatible(runLabel, label) || gap > c.GapTolerance {
				flush()
			}
		}

		if len(run) == 0 {
			runLabel = label
		}
		run = append(run, p)
	}
	if len(run) > 0 {
		flush()
	}

	return sessions
}

// finalize builds a session from a run, applying the minimum filters
func (c *Clusterer) finalize(label models.Label, run []models.ClassifiedPoint) (models.Session, bool) {
	if len(run) == 0 || len(run) < c.MinPoints {
		return models.Session{}, false
	}
	start, end := run[0].Timestamp, run[len(run)-1].Timestamp
	if end.Sub(start) < c.MinDuration {
		return models.Session{}, false
	}

	pts := make([]spatial.Point, len(run))
	for i, p := range run {
		pts[i] = spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
	}
	centroid := spatial.Centroid(pts)

	s := models.Session{
		ID:           fmt.Sprintf("%s:%s@%d", label.Kind, label.Value, start.Unix()),
		Label:        label,
		Start:        start,
		End:          end,
		CentroidLat:  centroid.Lat,
		CentroidLon:  centroid.Lon,
		PathDistance: spatial.PathLength(pts),
		MeanVelocity: meanVelocity(run),
		DominantBand: dominantBand(run),
		PointCount:   len(run),
		Points:       append([]models.ClassifiedPoint(nil), run...),
	}
	if label.Kind == models.KindKnownLocation {
		s.LocationID = run[0].LocationID
		s.Category = run[0].Category
	}
	return s, true
}

// meanVelocity averages the velocities between consecutive session points
func meanVelocity(run []models.ClassifiedPoint) float64 {
	var velocities stats.Float64Data
	for i := 1; i < len(run); i++ {
		elapsed := run[i].Timestamp.Sub(run[i-1].Timestamp).Seconds()
		if elapsed <= 0 {
			continue
		}
		d := spatial.HaversineDistance(run[i-1].Latitude, run[i-1].Longitude, run[i].Latitude, run[i].Longitude)
		velocities = append(velocities, d/elapsed)
	}
	if len(velocities) == 0 {
		return 0
	}
	mean, err := velocities.Mean()
	if err != nil {
		return 0
	}
	return mean
}

// dominantBand returns the most common known band, the faster band on ties
func dominantBand(run []models.ClassifiedPoint) models.VelocityBand {
	counts := make(map[models.VelocityBand]int)
	for _, p := range run {
		if p.Band != models.BandUnknown {
			counts[p.Band]++
		}
	}
	best, bestCount := models.BandUnknown, 0
	for b := models.BandStationary; b <= models.BandDriving; b++ {
		if counts[b] > 0 && counts[b] >= bestCount {
			best, bestCount = b, counts[b]
		}
	}
	return best
}
