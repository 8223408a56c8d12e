package activity

import (
	"fmt"
	"time"

	"github.com/gavraq/location-timeline/internal/analysis"
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
	"github.com/gavraq/location-timeline/internal/spatial"
)

// ActivityParkrun is the default parkrun activity label
const ActivityParkrun = "Parkrun"

// ParkrunDetector finds Saturday runs at a parkrun venue, boosted when the
// runner cycled to or from the venue
type ParkrunDetector struct {
	analysis.BaseDetector
	def models.ActivityDefinition
	cfg params.ParkrunConfig
}

// NewParkrunDetector creates a parkrun detector
func NewParkrunDetector(def models.ActivityDefinition, p params.Params) (analysis.Detector, error) {
	cfg := p.Parkrun
	if def.MinDurationSeconds > 0 {
		cfg.MinDurationS = def.MinDurationSeconds
	}
	if def.MaxDurationSeconds > 0 {
		cfg.MaxDurationS = def.MaxDurationSeconds
	}
	if len(def.Schedule) > 0 {
		cfg.Window = def.Schedule[0]
	}
	if def.ActivityType == "" {
		def.ActivityType = ActivityParkrun
	}
	return &ParkrunDetector{
		BaseDetector: analysis.NewBaseDetector(def.ID, def.ActivityType,
			boundsWidth(params.Seconds(cfg.MinDurationS), params.Seconds(cfg.MaxDurationS))),
		def: def,
		cfg: cfg,
	}, nil
}

func (d *ParkrunDetector) isVenue(s models.Session) bool {
	if !s.IsLocation() {
		return false
	}
	if len(d.def.LocationIDs) > 0 {
		return containsString(d.def.LocationIDs, s.LocationID)
	}
	if len(d.def.LocationCategories) > 0 {
		return containsString(d.def.LocationCategories, s.Category)
	}
	return s.Category == models.CategoryParkrun
}

// onFootShare is the share of moving points that are walking or running
func onFootShare(s models.Session) float64 {
	moving, onFoot := 0, 0
	for _, p := range s.Points {
		if !p.Band.IsMoving() {
			continue
		}
		moving++
		if p.Band == models.BandWalking || p.Band == models.BandRunning {
			onFoot++
		}
	}
	if moving == 0 {
		return 0
	}
	return float64(onFoot) / float64(moving)
}

// cyclingLeg reports whether the session is a cycling leg touching the venue
// at the given end, within the approach gap of the venue session
func (d *ParkrunDetector) cyclingLeg(leg models.Session, fence spatial.Geofence, gap time.Duration, arriving bool) bool {
	if !leg.IsTravel() || leg.DominantBand != models.BandCycling || len(leg.Points) == 0 {
		return false
	}
	if gap < 0 || gap > params.Seconds(d.cfg.ApproachGapS) {
		return false
	}
	edge := leg.Points[0]
	if arriving {
		edge = leg.Points[len(leg.Points)-1]
	}
	return fence.Near(spatial.Point{Lat: edge.Latitude, Lon: edge.Longitude}, d.cfg.ApproachRadiusM)
}

// Detect grades every on-foot venue session on a matching day
func (d *ParkrunDetector) Detect(in analysis.DetectionInput) []models.ActivityCandidate {
	var out []models.ActivityCandidate
	minDur, maxDur := params.Seconds(d.cfg.MinDurationS), params.Seconds(d.cfg.MaxDurationS)

	for i, s := range in.Sessions {
		if !d.isVenue(s) {
			continue
		}

		// Required: right day, on foot, plausible duration
		if len(d.cfg.Window.Weekdays) > 0 && !containsWeekday(d.cfg.Window.Weekdays, s.Start.Weekday()) {
			continue
		}
		share := onFootShare(s)
		if share < 0.5 {
			continue
		}
		duration := durationCriterion("duration", s.Duration(), minDur, maxDur)
		if !duration.Passed {
			continue
		}

		venue, ok := in.Registry.Lookup(s.LocationID)
		if !ok {
			continue
		}
		fence := spatial.NewGeofence(spatial.Point{Lat: venue.Latitude, Lon: venue.Longitude}, venue.RadiusMeters)

		cycledTo := i > 0 && d.cyclingLeg(in.Sessions[i-1], fence, s.Start.Sub(in.Sessions[i-1].End), true)
		cycledFrom := i < len(in.Sessions)-1 && d.cyclingLeg(in.Sessions[i+1], fence, in.Sessions[i+1].Start.Sub(s.End), false)
		inWindow := d.cfg.Window.Contains(s.Start)

		confidence := d.cfg.BaseConfidence
		if cycledTo {
			confidence += d.cfg.CycledToBonus
		}
		if cycledFrom {
			confidence += d.cfg.CycledFromBonus
		}
		if inWindow {
			confidence += d.cfg.WindowBonus
		}
		confidence = clamp01(confidence)

		related := []models.Session{s}
		if cycledTo {
			related = append([]models.Session{in.Sessions[i-1]}, related...)
		}
		if cycledFrom {
			related = append(related, in.Sessions[i+1])
		}

		out = append(out, models.ActivityCandidate{
			ActivityType: d.ActivityType(),
			Detector:     d.Name(),
			Start:        s.Start,
			End:          s.End,
			Confidence:   confidence,
			Likelihood:   likelihoodOf(confidence),
			Evidence: []models.Criterion{
				boolCriterion("venue", true, venue.ID, "parkrun venue session"),
				boolCriterion("weekday", true, s.Start.Weekday().String(), fmt.Sprint(d.cfg.Window.Weekdays)),
				boolCriterion("on_foot", true, fmt.Sprintf("%.0f%%", share*100), ">= 50% of moving points walking or running"),
				duration,
				boolCriterion("cycled_to", cycledTo, fmt.Sprint(cycledTo), "cycling leg ending at the venue"),
				boolCriterion("cycled_from", cycledFrom, fmt.Sprint(cycledFrom), "cycling leg leaving the venue"),
				boolCriterion("morning_window", inWindow, s.Start.Format("15:04"),
					fmt.Sprintf("%s - %s", d.cfg.Window.Start, d.cfg.Window.End)),
			},
			SessionIDs:   sessionIDs(related...),
			Participants: d.def.Participants,
			LocationID:   venue.ID,
		})
	}

	return out
}

func containsWeekday(days []time.Weekday, day time.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func init() {
	analysis.RegisterDetector("parkrun", NewParkrunDetector)
	analysis.RegisterDefaultDefinition(models.ActivityDefinition{
		ID:           "parkrun",
		Name:         "Parkrun",
		Kind:         "parkrun",
		ActivityType: ActivityParkrun,
	})
}
