package activity

import (
	"fmt"
	"strings"

	"github.com/gavraq/location-timeline/internal/analysis"
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
)

// VisitDetector recognises a recurring visit to specific locations, such as
// a dog walk, a school run or a hospital visit
type VisitDetector struct {
	analysis.BaseDetector
	def models.ActivityDefinition
	cfg params.VisitConfig
}

// NewVisitDetector creates a visit detector. A visit needs at least one
// location ID or category to anchor on.
func NewVisitDetector(def models.ActivityDefinition, p params.Params) (analysis.Detector, error) {
	if len(def.LocationIDs) == 0 && len(def.LocationCategories) == 0 {
		return nil, fmt.Errorf("visit definition %s has no locations", def.ID)
	}
	if def.ActivityType == "" {
		def.ActivityType = def.Name
	}
	cfg := p.Visit
	if def.MinDurationSeconds == 0 {
		def.MinDurationSeconds = cfg.DefaultMinDurationS
	}
	if def.MaxDurationSeconds == 0 {
		def.MaxDurationSeconds = cfg.DefaultMaxDurationS
	}
	return &VisitDetector{
		BaseDetector: analysis.NewBaseDetector(def.ID, def.ActivityType, boundsWidth(def.MinDuration(), def.MaxDuration())),
		def:          def,
		cfg:          cfg,
	}, nil
}

func (d *VisitDetector) matches(s models.Session) bool {
	if !s.IsLocation() {
		return false
	}
	return containsString(d.def.LocationIDs, s.LocationID) || containsString(d.def.LocationCategories, s.Category)
}

// scheduleFit is how central the start time sits within its schedule window
func (d *VisitDetector) scheduleFit(s models.Session) (bool, float64) {
	if !d.def.InSchedule(s.Start) {
		return false, 0
	}
	for _, w := range d.def.Schedule {
		if w.Contains(s.Start) {
			lo, hi := w.Bounds(s.Start)
			return true, centrality(float64(s.Start.Unix()), float64(lo.Unix()), float64(hi.Unix()))
		}
	}
	return true, 1
}

// Detect grades every session at one of the definition's locations
func (d *VisitDetector) Detect(in analysis.DetectionInput) []models.ActivityCandidate {
	var out []models.ActivityCandidate
	minDur, maxDur := d.def.MinDuration(), d.def.MaxDuration()

	for _, s := range in.Sessions {
		if !d.matches(s) {
			continue
		}

		duration := durationCriterion("duration", s.Duration(), minDur, maxDur)
		inSchedule, scheduleFit := d.scheduleFit(s)
		criteria := []models.Criterion{
			boolCriterion("location", true, s.LocationID, strings.Join(append(append([]string(nil), d.def.LocationIDs...), d.def.LocationCategories...), ", ")),
			duration,
			boolCriterion("schedule", inSchedule, s.Start.Format("Mon 15:04"), describeSchedule(d.def.Schedule)),
		}
		if len(d.def.VelocityBands) > 0 {
			ok := false
			names := make([]string, len(d.def.VelocityBands))
			for i, b := range d.def.VelocityBands {
				names[i] = b.String()
				if b == s.DominantBand {
					ok = true
				}
			}
			criteria = append(criteria, boolCriterion("velocity", ok, s.DominantBand.String(), strings.Join(names, " or ")))
		}

		// The location criterion always passes, grading runs over the rest
		graded := criteria[1:]
		likelihood := likelihoodFor(countPassed(graded), len(graded))
		fit := mean(centrality(s.Duration().Seconds(), minDur.Seconds(), maxDur.Seconds()), scheduleFit)

		out = append(out, models.ActivityCandidate{
			ActivityType: d.ActivityType(),
			Detector:     d.Name(),
			Start:        s.Start,
			End:          s.End,
			Confidence:   confidenceFor(likelihood, fit),
			Likelihood:   likelihood,
			Evidence:     criteria,
			SessionIDs:   []string{s.ID},
			Participants: d.def.Participants,
			LocationID:   s.LocationID,
		})
	}

	return out
}

func describeSchedule(windows []models.ScheduleWindow) string {
	if len(windows) == 0 {
		return "any time"
	}
	parts := make([]string, len(windows))
	for i, w := range windows {
		days := make([]string, len(w.Weekdays))
		for j, day := range w.Weekdays {
			days[j] = day.String()[:3]
		}
		parts[i] = fmt.Sprintf("%s %s-%s", strings.Join(days, ","), w.Start, w.End)
	}
	return strings.Join(parts, "; ")
}

func init() {
	analysis.RegisterDetector("visit", NewVisitDetector)
}
