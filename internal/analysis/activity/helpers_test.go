package activity

import (
	"testing"
	"time"

	"github.com/gavraq/location-timeline/internal/analysis"
	"github.com/gavraq/location-timeline/internal/analysis/behavior"
	"github.com/gavraq/location-timeline/internal/analysis/foundation"
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
	"github.com/gavraq/location-timeline/internal/spatial"
)

// track builds synthetic GPS traces one leg at a time
type track struct {
	points   []models.LocationPoint
	t        time.Time
	lat, lon float64
}

func newTrack(start time.Time, lat, lon float64) *track {
	tr := &track{t: start, lat: lat, lon: lon}
	tr.emit()
	return tr
}

func (tr *track) emit() {
	tr.points = append(tr.points, models.LocationPoint{Timestamp: tr.t, Latitude: tr.lat, Longitude: tr.lon})
}

// stay holds position, emitting a point every step until d has elapsed
func (tr *track) stay(d, step time.Duration) *track {
	end := tr.t.Add(d)
	for !tr.t.Add(step).After(end) {
		tr.t = tr.t.Add(step)
		tr.emit()
	}
	return tr
}

// move travels on a bearing at speed m/s, emitting a point every step
func (tr *track) move(bearing, speed float64, d, step time.Duration) *track {
	end := tr.t.Add(d)
	for !tr.t.Add(step).After(end) {
		tr.t = tr.t.Add(step)
		tr.lat, tr.lon = spatial.DestinationPoint(tr.lat, tr.lon, bearing, speed*step.Seconds())
		tr.emit()
	}
	return tr
}

// shuttle moves back and forth along a bearing, reversing every step
func (tr *track) shuttle(bearing, speed float64, d, step time.Duration) *track {
	end := tr.t.Add(d)
	for !tr.t.Add(step).After(end) {
		tr.t = tr.t.Add(step)
		tr.lat, tr.lon = spatial.DestinationPoint(tr.lat, tr.lon, bearing, speed*step.Seconds())
		bearing = float64(int(bearing+180) % 360)
		tr.emit()
	}
	return tr
}

// at moves the clock to t and emits a point there
func (tr *track) at(t time.Time) *track {
	tr.t = t
	tr.emit()
	return tr
}

func offset(lat, lon, bearing, meters float64) (float64, float64) {
	return spatial.DestinationPoint(lat, lon, bearing, meters)
}

// prepare runs the baseline stages the detectors consume
func prepare(points []models.LocationPoint, reg models.Registry) analysis.DetectionInput {
	p := params.Default()
	var diags models.Diagnostics
	clean := foundation.Sanitize(points, time.Time{}, time.Time{}, &diags)
	classified := foundation.NewMatcher(reg).Annotate(clean)
	foundation.NewVelocityClassifier(p.Velocity).Classify(classified, &diags)
	sessions := behavior.NewClusterer(p.Cluster).Cluster(classified)
	return analysis.DetectionInput{
		Points:   classified,
		Sessions: sessions,
		Registry: reg,
		Params:   p,
	}
}

func detect(t *testing.T, def models.ActivityDefinition, in analysis.DetectionInput) []models.ActivityCandidate {
	t.Helper()
	d, err := analysis.GetDetector(def, in.Params)
	if err != nil {
		t.Fatalf("build detector: %v", err)
	}
	return d.Detect(in)
}
