package service

import (
	"fmt"
	"log"
	"time"

	"github.com/gavraq/location-timeline/internal/analysis"
	"github.com/gavraq/location-timeline/internal/analysis/pipeline"
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
	"github.com/gavraq/location-timeline/internal/repository"
)

// TimelineService builds day timelines from stored points, places and definitions
type TimelineService struct {
	repos *repository.Repositories
	base  params.Params
	loc   *time.Location
}

// NewTimelineService creates a new timeline service
func NewTimelineService(repos *repository.Repositories, base params.Params, loc *time.Location) *TimelineService {
	if loc == nil {
		loc = time.UTC
	}
	return &TimelineService{repos: repos, base: base, loc: loc}
}

// AnalyzeRequest carries everything needed to analyze a day without touching storage
type AnalyzeRequest struct {
	Date        string                      `json:"date" binding:"required"`
	Timezone    string                      `json:"timezone"`
	Points      []models.LocationPoint      `json:"points"`
	Locations   []models.KnownLocation      `json:"locations"`
	Overlay     []models.KnownLocation      `json:"overlay"`
	Definitions []models.ActivityDefinition `json:"definitions"`
}

// DetectorInfo describes one registered detector kind
type DetectorInfo struct {
	Kind       string                      `json:"kind"`
	Default    *models.ActivityDefinition  `json:"default,omitempty"`
	Configured []models.ActivityDefinition `json:"configured"`
}

// Location resolves a timezone name, falling back to the service default
func (s *TimelineService) Location(tz string) (*time.Location, error) {
	if tz == "" {
		return s.loc, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Params returns the base thresholds with every default profile applied
func (s *TimelineService) Params() (params.Params, error) {
	p := s.base
	if s.repos == nil {
		return p, nil
	}
	profiles, err := s.repos.Thresholds.GetDefaults()
	if err != nil {
		return p, err
	}
	for _, profile := range profiles {
		if p, err = p.ApplyProfile(profile); err != nil {
			return s.base, err
		}
	}
	return p, nil
}

// Analyze runs the pipeline over caller-supplied data
func (s *TimelineService) Analyze(req AnalyzeRequest) (*pipeline.DayResult, error) {
	loc, err := s.Location(req.Timezone)
	if err != nil {
		return nil, err
	}

	reg := models.NewRegistry(req.Locations)
	if len(req.Overlay) > 0 {
		reg = reg.WithOverlay(&models.TripContext{Locations: req.Overlay})
	}

	res, err := pipeline.NewAnalyzer(s.base).AnalyzeDay(pipeline.DayInput{
		Date:        req.Date,
		Location:    loc,
		Points:      req.Points,
		Registry:    reg,
		Definitions: req.Definitions,
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// AnalyzeDay analyzes one stored day and optionally records the run
func (s *TimelineService) AnalyzeDay(date, tz string, persist bool) (*pipeline.DayResult, error) {
	loc, err := s.Location(tz)
	if err != nil {
		return nil, err
	}
	start, end, err := pipeline.DaySpan(date, loc)
	if err != nil {
		return nil, err
	}

	p, err := s.Params()
	if err != nil {
		return nil, fmt.Errorf("failed to load thresholds: %w", err)
	}
	points, err := s.repos.Points.GetPointsBetween(start, end)
	if err != nil {
		return nil, err
	}
	locations, err := s.repos.Places.GetLocations(models.PlaceFilter{})
	if err != nil {
		return nil, err
	}
	defs, err := s.repos.Definitions.GetEnabled()
	if err != nil {
		return nil, err
	}

	res, err := pipeline.NewAnalyzer(p).AnalyzeDay(pipeline.DayInput{
		Date:        date,
		Location:    loc,
		Points:      points,
		Registry:    models.NewRegistry(locations),
		Definitions: defs,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[TimelineService] %s: %d points, %d sessions, %d candidates, %d entries, %d diagnostics",
		date, res.PointCount, len(res.Sessions), len(res.Candidates), len(res.Timeline.Entries), len(res.Diagnostics))

	if persist {
		if _, err := s.SaveRun(models.RunScopeDay, "", &res); err != nil {
			return nil, err
		}
	}
	return &res, nil
}

// SaveRun records a day result and its timeline entries
func (s *TimelineService) SaveRun(scope, tripID string, res *pipeline.DayResult) (*models.AnalysisRun, error) {
	diagnostics, err := repository.EncodeDiagnostics(res.Diagnostics)
	if err != nil {
		return nil, err
	}
	run := &models.AnalysisRun{
		Scope:           scope,
		Date:            res.Date,
		TripID:          tripID,
		Status:          models.RunStatusCompleted,
		PointCount:      res.PointCount,
		DiagnosticsJSON: diagnostics,
	}
	if res.Diagnostics.Has(models.DiagDayFailed) {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = firstMessage(res.Diagnostics, models.DiagDayFailed)
	}
	if err := s.repos.Runs.SaveRun(run, res.Date, res.Timeline.Entries); err != nil {
		return nil, err
	}
	log.Printf("[TimelineService] Saved run %s for %s (%s)", run.ID, res.Date, run.Status)
	return run, nil
}

// Detectors lists registered detector kinds with their default and stored definitions
func (s *TimelineService) Detectors() ([]DetectorInfo, error) {
	var defs []models.ActivityDefinition
	if s.repos != nil {
		var err error
		if defs, err = s.repos.Definitions.GetEnabled(); err != nil {
			return nil, err
		}
	}

	kinds := analysis.Kinds()
	infos := make([]DetectorInfo, 0, len(kinds))
	for _, kind := range kinds {
		info := DetectorInfo{Kind: kind, Configured: []models.ActivityDefinition{}}
		if def, ok := analysis.DefaultDefinitions[kind]; ok {
			d := def
			info.Default = &d
		}
		for _, def := range defs {
			if def.Kind == kind {
				info.Configured = append(info.Configured, def)
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func firstMessage(diags models.Diagnostics, code string) string {
	for _, d := range diags {
		if d.Code == code {
			return d.Message
		}
	}
	return ""
}
