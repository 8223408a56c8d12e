package activity

import (
	"fmt"

	"github.com/gavraq/location-timeline/internal/analysis"
	"github.com/gavraq/location-timeline/internal/analysis/behavior"
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
	"github.com/gavraq/location-timeline/internal/spatial"
)

// ActivityGolf is the default golf activity label
const ActivityGolf = "Golf"

// GolfDetector finds rounds of golf: slow movement inside a course with
// long pauses between shots
type GolfDetector struct {
	analysis.BaseDetector
	def models.ActivityDefinition
	cfg params.GolfConfig
}

// NewGolfDetector creates a golf detector
func NewGolfDetector(def models.ActivityDefinition, p params.Params) (analysis.Detector, error) {
	cfg := p.Golf
	if def.MinDurationSeconds > 0 {
		cfg.MinDurationS = def.MinDurationSeconds
	}
	if def.MaxDurationSeconds > 0 {
		cfg.MaxDurationS = def.MaxDurationSeconds
	}
	if def.ActivityType == "" {
		def.ActivityType = ActivityGolf
	}
	return &GolfDetector{
		BaseDetector: analysis.NewBaseDetector(def.ID, def.ActivityType,
			boundsWidth(params.Seconds(cfg.MinDurationS), params.Seconds(cfg.MaxDurationS))),
		def: def,
		cfg: cfg,
	}, nil
}

func (d *GolfDetector) courses(reg models.Registry) []models.KnownLocation {
	if len(d.def.LocationIDs) > 0 {
		var out []models.KnownLocation
		for _, id := range d.def.LocationIDs {
			if loc, ok := reg.Lookup(id); ok {
				out = append(out, loc)
			}
		}
		return out
	}
	categories := d.def.LocationCategories
	if len(categories) == 0 {
		categories = []string{models.CategoryGolf}
	}
	var out []models.KnownLocation
	for _, c := range categories {
		out = append(out, reg.ByCategory(c)...)
	}
	return out
}

// Detect re-clusters slow points inside each course with a wide gap
// tolerance, then grades duration, mean velocity and distance
func (d *GolfDetector) Detect(in analysis.DetectionInput) []models.ActivityCandidate {
	var out []models.ActivityCandidate

	for _, course := range d.courses(in.Registry) {
		fence := spatial.NewGeofence(spatial.Point{Lat: course.Latitude, Lon: course.Longitude}, course.RadiusMeters)
		label := models.Label{Kind: models.KindDetectedActivity, Value: course.ID}

		c := &behavior.Clusterer{
			GapTolerance: params.Seconds(d.cfg.GapToleranceS),
			MinPoints:    2,
			Label: func(p models.ClassifiedPoint) (models.Label, bool) {
				if !p.HasVelocity || p.Velocity >= d.cfg.MaxPointVelocityMPS {
					return models.Label{}, false
				}
				inside, _ := fence.Contains(spatial.Point{Lat: p.Latitude, Lon: p.Longitude})
				return label, inside
			},
		}

		for _, s := range c.Cluster(in.Points) {
			out = append(out, d.grade(s, course))
		}
	}

	return out
}

func (d *GolfDetector) grade(s models.Session, course models.KnownLocation) models.ActivityCandidate {
	minDur, maxDur := params.Seconds(d.cfg.MinDurationS), params.Seconds(d.cfg.MaxDurationS)
	criteria := []models.Criterion{
		durationCriterion("duration", s.Duration(), minDur, maxDur),
		rangeCriterion("mean_velocity", s.MeanVelocity, d.cfg.MinMeanVelocityMPS, d.cfg.MaxMeanVelocityMPS, "m/s"),
		rangeCriterion("distance", s.PathDistance, d.cfg.MinDistanceM, d.cfg.MaxDistanceM, "m"),
	}

	likelihood := likelihoodFor(countPassed(criteria), len(criteria))
	fit := mean(
		centrality(s.Duration().Seconds(), minDur.Seconds(), maxDur.Seconds()),
		centrality(s.MeanVelocity, d.cfg.MinMeanVelocityMPS, d.cfg.MaxMeanVelocityMPS),
		centrality(s.PathDistance, d.cfg.MinDistanceM, d.cfg.MaxDistanceM),
	)

	return models.ActivityCandidate{
		ActivityType: d.ActivityType(),
		Detector:     d.Name(),
		Start:        s.Start,
		End:          s.End,
		Confidence:   confidenceFor(likelihood, fit),
		Likelihood:   likelihood,
		Evidence: append(criteria, models.Criterion{
			Name:     "course",
			Passed:   true,
			Observed: fmt.Sprintf("%s (%d points)", course.ID, s.PointCount),
			Expected: "inside course geofence",
		}),
		SessionIDs:   []string{s.ID},
		Participants: d.def.Participants,
		LocationID:   course.ID,
	}
}

func init() {
	analysis.RegisterDetector("golf", NewGolfDetector)
	analysis.RegisterDefaultDefinition(models.ActivityDefinition{
		ID:           "golf",
		Name:         "Golf",
		Kind:         "golf",
		ActivityType: ActivityGolf,
	})
}
