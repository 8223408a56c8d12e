package pipeline

import (
	"fmt"
	"time"

	"github.com/gavraq/location-timeline/internal/analysis"
	"github.com/gavraq/location-timeline/internal/analysis/behavior"
	"github.com/gavraq/location-timeline/internal/analysis/foundation"
	"github.com/gavraq/location-timeline/internal/analysis/timeline"
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
)

// DayInput is one calendar day of raw points plus the context to read them in
type DayInput struct {
	Date        string         // YYYY-MM-DD in Location
	Location    *time.Location // nil means UTC
	Points      []models.LocationPoint
	Registry    models.Registry
	Definitions []models.ActivityDefinition
}

// DayResult is everything the pipeline derived for one day
type DayResult struct {
	Date        string                     `json:"date"`
	NoData      bool                       `json:"noData"`
	PointCount  int                        `json:"pointCount"`
	Timeline    models.Timeline            `json:"timeline"`
	Sessions    []models.Session           `json:"sessions"`
	Candidates  []models.ActivityCandidate `json:"candidates"`
	Diagnostics models.Diagnostics         `json:"diagnostics"`
}

// Analyzer runs classification, clustering, detection and timeline assembly for a day
type Analyzer struct {
	Params params.Params

	// Detectors overrides the per-day set built from DayInput.Definitions
	Detectors *analysis.Set
}

// NewAnalyzer creates an analyzer with the given thresholds
func NewAnalyzer(p params.Params) *Analyzer {
	return &Analyzer{Params: p}
}

// DaySpan returns the local [start, end) of a calendar day
func DaySpan(date string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation(models.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return start, start.AddDate(0, 0, 1), nil
}

// AnalyzeDay runs the full pipeline over one day. The only error is a malformed
// date; every data condition is reported as a diagnostic on the result.
func (a *Analyzer) AnalyzeDay(in DayInput) (DayResult, error) {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	start, end, err := DaySpan(in.Date, loc)
	if err != nil {
		return DayResult{}, err
	}

	var diags models.Diagnostics
	result := DayResult{Date: in.Date}
	builder := timeline.NewBuilder(a.Params.Timeline)

	// 1. Sanitize
	clean := foundation.Sanitize(in.Points, start, end, &diags)
	for i := range clean {
		clean[i].Timestamp = clean[i].Timestamp.In(loc)
	}
	result.PointCount = len(clean)

	if len(clean) == 0 {
		diags.Add(models.SeverityWarning, models.DiagNoData, "no location points for "+in.Date)
		result.NoData = true
		result.Timeline = builder.Build(timeline.Input{Date: in.Date, Start: start, End: end, Registry: in.Registry})
		result.Diagnostics = stamp(diags, in.Date)
		return result, nil
	}

	// 2. Match known locations
	classified := foundation.NewMatcher(in.Registry).Annotate(clean)

	// 3. Velocity bands
	foundation.NewVelocityClassifier(a.Params.Velocity).Classify(classified, &diags)

	// 4. Sessions
	sessions := behavior.NewClusterer(a.Params.Cluster).Cluster(classified)

	// 5. Activities
	set := a.Detectors
	if set == nil {
		set = analysis.NewSet(in.Definitions, a.Params, &diags)
	}
	candidates := set.Run(analysis.DetectionInput{
		Date:     in.Date,
		Location: loc,
		Points:   classified,
		Sessions: sessions,
		Registry: in.Registry,
		Params:   a.Params,
	}, &diags)

	// 6. Timeline
	result.Sessions = sessions
	result.Candidates = candidates
	result.Timeline = builder.Build(timeline.Input{
		Date:       in.Date,
		Start:      start,
		End:        end,
		Sessions:   sessions,
		Candidates: candidates,
		Registry:   in.Registry,
	})
	result.Diagnostics = stamp(diags, in.Date)
	return result, nil
}

func stamp(diags models.Diagnostics, date string) models.Diagnostics {
	for i := range diags {
		if diags[i].Date == "" {
			diags[i].Date = date
		}
	}
	return diags
}
