package trip

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/gavraq/location-timeline/internal/analysis/pipeline"
	"github.com/gavraq/location-timeline/internal/analysis/timeline"
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
)

// Input is a trip plus the data needed to analyze each of its days
type Input struct {
	Trip        models.TripContext
	Locations   []models.KnownLocation // global registry
	Definitions []models.ActivityDefinition
	PointsByDay map[string][]models.LocationPoint
}

// Result holds per-day results in calendar order and the trip roll-up
type Result struct {
	Trip        models.TripContext   `json:"trip"`
	Days        []pipeline.DayResult `json:"days"`
	Summary     models.TripSummary   `json:"summary"`
	Diagnostics models.Diagnostics   `json:"diagnostics"`
}

// Aggregator runs the day pipeline over every day of a trip
type Aggregator struct {
	Analyzer *pipeline.Analyzer
	Location *time.Location
	Workers  int // <= 1 runs days one at a time
}

// NewAggregator creates a trip aggregator
func NewAggregator(analyzer *pipeline.Analyzer, loc *time.Location, workers int) *Aggregator {
	return &Aggregator{Analyzer: analyzer, Location: loc, Workers: workers}
}

// Aggregate analyzes each day of the trip with the trip's locations overlaid
// on the global registry. A day that fails is reported and the rest continue.
// Cancelling ctx stops further days from being scheduled.
func (a *Aggregator) Aggregate(ctx context.Context, in Input) (Result, error) {
	days, err := in.Trip.Days()
	if err != nil {
		return Result{}, fmt.Errorf("invalid trip dates: %w", err)
	}

	global := models.NewRegistry(in.Locations)
	results := make([]pipeline.DayResult, len(days))

	workers := a.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, day := range days {
		if gctx.Err() != nil {
			break
		}
		i, day := i, day
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trip := in.Trip
			results[i] = a.runDay(pipeline.DayInput{
				Date:        day,
				Location:    a.Location,
				Points:      in.PointsByDay[day],
				Registry:    global.WithOverlay(&trip),
				Definitions: in.Definitions,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{Trip: in.Trip, Days: results}
	for _, r := range results {
		for _, d := range r.Diagnostics {
			if d.Code == models.DiagDayFailed {
				res.Diagnostics = append(res.Diagnostics, d)
			}
		}
	}
	res.Summary = Summarize(in.Trip.ID, results)
	return res, nil
}

// runDay isolates one day so a panic cannot take down the trip
func (a *Aggregator) runDay(in pipeline.DayInput) (result pipeline.DayResult) {
	defer func() {
		if r := recover(); r != nil {
			result = a.failedDay(in, fmt.Sprintf("day analysis panicked: %v", r))
		}
	}()

	res, err := a.Analyzer.AnalyzeDay(in)
	if err != nil {
		return a.failedDay(in, err.Error())
	}
	return res
}

func (a *Aggregator) failedDay(in pipeline.DayInput, msg string) pipeline.DayResult {
	res := pipeline.DayResult{
		Date: in.Date,
		Diagnostics: models.Diagnostics{{
			Severity: models.SeverityError,
			Code:     models.DiagDayFailed,
			Message:  msg,
			Date:     in.Date,
		}},
	}
	cfg := params.DefaultTimeline
	if a.Analyzer != nil {
		cfg = a.Analyzer.Params.Timeline
	}
	if start, end, err := pipeline.DaySpan(in.Date, in.Location); err == nil {
		res.Timeline = timeline.NewBuilder(cfg).Build(timeline.Input{
			Date: in.Date, Start: start, End: end,
		})
	}
	return res
}

// Summarize rolls per-day results up to trip level
func Summarize(tripID string, days []pipeline.DayResult) models.TripSummary {
	sum := models.TripSummary{
		TripID:            tripID,
		Days:              len(days),
		NoDataDays:        []string{},
		SecondsByCategory: make(map[string]float64),
		ActivitiesByDay:   make(map[string][]string),
	}

	var tracked stats.Float64Data
	var unclassified, span float64
	for _, d := range days {
		if d.NoData {
			sum.NoDataDays = append(sum.NoDataDays, d.Date)
		}

		seen := make(map[string]bool)
		dayUnclassified := 0.0
		for _, e := range d.Timeline.Entries {
			secs := e.Duration().Seconds()
			switch e.Kind {
			case models.KindKnownLocation:
				key := e.Category
				if key == "" {
					key = e.LocationID
				}
				sum.SecondsByCategory[key] += secs
			case models.KindDetectedActivity:
				seen[e.ActivityType] = true
			case models.KindUnclassified:
				dayUnclassified += secs
			}
		}
		if len(seen) > 0 {
			types := make([]string, 0, len(seen))
			for t := range seen {
				types = append(types, t)
			}
			sort.Strings(types)
			sum.ActivitiesByDay[d.Date] = types
		}

		daySpan := d.Timeline.End.Sub(d.Timeline.Start).Seconds()
		span += daySpan
		unclassified += dayUnclassified
		if !d.NoData && daySpan > 0 {
			tracked = append(tracked, (daySpan-dayUnclassified)/3600)
		}
	}

	if len(tracked) > 0 {
		sum.MeanTrackedHours, _ = tracked.Mean()
		sum.MedianTrackedHours, _ = tracked.Median()
	}
	if span > 0 {
		sum.UnclassifiedPercent = unclassified / span * 100
	}
	return sum
}
