package activity

import (
	"fmt"
	"time"

	"github.com/gavraq/location-timeline/internal/analysis"
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
)

// Commute activity labels
const (
	ActivityOfficeDay = "Office Day"
	ActivityWFHDay    = "WFH Day"
)

// CommuteDetector recognises home to office commutes and, when the office
// is never visited, days worked from home
type CommuteDetector struct {
	analysis.BaseDetector
	def models.ActivityDefinition
	cfg params.CommuteConfig
}

// NewCommuteDetector creates a commute detector
func NewCommuteDetector(def models.ActivityDefinition, p params.Params) (analysis.Detector, error) {
	cfg := p.Commute
	if len(def.Schedule) > 0 {
		cfg.OutboundWindow = def.Schedule[0]
	}
	if len(def.Schedule) > 1 {
		cfg.ReturnWindow = def.Schedule[1]
	}
	if def.MaxDurationSeconds > 0 {
		cfg.MaxTravelS = def.MaxDurationSeconds
	}
	if def.ActivityType == "" {
		def.ActivityType = ActivityOfficeDay
	}
	return &CommuteDetector{
		BaseDetector: analysis.NewBaseDetector(def.ID, def.ActivityType, params.Seconds(cfg.MaxTravelS)),
		def:          def,
		cfg:          cfg,
	}, nil
}

func (d *CommuteDetector) isHome(s models.Session) bool {
	return s.IsLocation() && s.Category == models.CategoryHome && d.allowed(s)
}

func (d *CommuteDetector) isOffice(s models.Session) bool {
	return s.IsLocation() && s.Category == models.CategoryOffice && d.allowed(s)
}

func (d *CommuteDetector) allowed(s models.Session) bool {
	return len(d.def.LocationIDs) == 0 || containsString(d.def.LocationIDs, s.LocationID)
}

type commuteLeg struct {
	from, to models.Session
	travel   []models.Session
	outbound bool
	inWindow bool
}

func (l commuteLeg) duration() time.Duration {
	return l.to.Start.Sub(l.from.End)
}

// legs finds location, travel..., location sequences between home and office
func (d *CommuteDetector) legs(sessions []models.Session) []commuteLeg {
	var legs []commuteLeg
	for i, s := range sessions {
		outbound := d.isHome(s)
		if !outbound && !d.isOffice(s) {
			continue
		}

		j := i + 1
		for j < len(sessions) && sessions[j].IsTravel() {
			j++
		}
		if j == i+1 || j >= len(sessions) {
			continue
		}
		dest := sessions[j]
		if (outbound && !d.isOffice(dest)) || (!outbound && !d.isHome(dest)) {
			continue
		}

		leg := commuteLeg{
			from:     s,
			to:       dest,
			travel:   sessions[i+1 : j],
			outbound: outbound,
		}
		if leg.duration() > params.Seconds(d.cfg.MaxTravelS) {
			continue
		}
		if outbound {
			leg.inWindow = d.cfg.OutboundWindow.Contains(s.End)
		} else {
			leg.inWindow = d.cfg.ReturnWindow.Contains(s.End)
		}
		legs = append(legs, leg)
	}
	return legs
}

// Detect emits one Office Day candidate per commute leg, or WFH Day
// candidates when the day has no office session
func (d *CommuteDetector) Detect(in analysis.DetectionInput) []models.ActivityCandidate {
	legs := d.legs(in.Sessions)
	hasOutbound, hasReturn := false, false
	for _, l := range legs {
		if l.outbound {
			hasOutbound = true
		} else {
			hasReturn = true
		}
	}
	bothLegs := hasOutbound && hasReturn

	var out []models.ActivityCandidate
	maxTravel := params.Seconds(d.cfg.MaxTravelS)
	for _, l := range legs {
		window := d.cfg.ReturnWindow
		direction := "return"
		if l.outbound {
			window = d.cfg.OutboundWindow
			direction = "outbound"
		}

		criteria := []models.Criterion{
			boolCriterion("route", true,
				fmt.Sprintf("%s -> %s via %d travel sessions", l.from.LocationID, l.to.LocationID, len(l.travel)),
				direction+" home/office commute"),
			durationCriterion("travel_duration", l.duration(), 0, maxTravel),
			boolCriterion("schedule_window", l.inWindow, l.from.End.Format("Mon 15:04"),
				fmt.Sprintf("%s - %s", window.Start, window.End)),
			boolCriterion("both_legs", bothLegs, fmt.Sprintf("outbound=%t return=%t", hasOutbound, hasReturn),
				"outbound and return commute"),
		}

		// Route and travel duration always hold for a leg, grading runs over the rest
		graded := criteria[2:]
		likelihood := likelihoodFor(countPassed(graded), len(graded))
		fit := 0.5 * centrality(l.duration().Seconds(), 0, maxTravel.Seconds())
		if l.inWindow {
			fit += 0.5
		}

		out = append(out, models.ActivityCandidate{
			ActivityType: d.ActivityType(),
			Detector:     d.Name(),
			Start:        l.from.End,
			End:          l.to.Start,
			Confidence:   confidenceFor(likelihood, fit),
			Likelihood:   likelihood,
			Evidence:     criteria,
			SessionIDs:   sessionIDs(append(append([]models.Session{l.from}, l.travel...), l.to)...),
			Participants: d.def.Participants,
		})
	}

	for _, s := range in.Sessions {
		if d.isOffice(s) {
			return out
		}
	}
	return append(out, d.workFromHome(in)...)
}

// workFromHome emits a WFH Day candidate per home session inside the
// working window when enough of the window was spent at home
func (d *CommuteDetector) workFromHome(in analysis.DetectionInput) []models.ActivityCandidate {
	type clipped struct {
		session    models.Session
		start, end time.Time
	}
	var parts []clipped
	var total time.Duration

	for _, s := range in.Sessions {
		if !d.isHome(s) {
			continue
		}
		if len(d.cfg.WFHWindow.Weekdays) > 0 && !containsWeekday(d.cfg.WFHWindow.Weekdays, s.Start.Weekday()) {
			continue
		}
		winStart, winEnd := d.cfg.WFHWindow.Bounds(s.Start)
		start, end := s.Start, s.End
		if start.Before(winStart) {
			start = winStart
		}
		if end.After(winEnd) {
			end = winEnd
		}
		if !end.After(start) {
			continue
		}
		parts = append(parts, clipped{session: s, start: start, end: end})
		total += end.Sub(start)
	}

	minHome := params.Seconds(d.cfg.MinWFHHomeS)
	if total < minHome || len(parts) == 0 {
		return nil
	}

	share := clamp01(total.Seconds() / params.Seconds(d.cfg.FullDayHomeS).Seconds())
	confidence := 0.4 + 0.55*share
	evidence := []models.Criterion{
		durationCriterion("home_time_in_window", total, minHome, 0),
		boolCriterion("no_office_session", true, "none", "no office session all day"),
	}

	out := make([]models.ActivityCandidate, 0, len(parts))
	for _, p := range parts {
		out = append(out, models.ActivityCandidate{
			ActivityType: ActivityWFHDay,
			Detector:     d.Name(),
			Start:        p.start,
			End:          p.end,
			Confidence:   confidence,
			Likelihood:   likelihoodOf(confidence),
			Evidence:     evidence,
			SessionIDs:   []string{p.session.ID},
			Participants: d.def.Participants,
			LocationID:   p.session.LocationID,
		})
	}
	return out
}

func init() {
	analysis.RegisterDetector("commute", NewCommuteDetector)
	analysis.RegisterDefaultDefinition(models.ActivityDefinition{
		ID:           "commute",
		Name:         "Commute",
		Kind:         "commute",
		ActivityType: ActivityOfficeDay,
	})
}
