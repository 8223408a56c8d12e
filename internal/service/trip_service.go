package service

import (
	"context"
	"log"
	"time"

	"github.com/gavraq/location-timeline/internal/analysis/pipeline"
	"github.com/gavraq/location-timeline/internal/analysis/trip"
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/repository"
)

// TripService analyzes whole trips with their overlay locations
type TripService struct {
	repos    *repository.Repositories
	timeline *TimelineService
	workers  int
}

// NewTripService creates a new trip service
func NewTripService(repos *repository.Repositories, timeline *TimelineService, workers int) *TripService {
	return &TripService{repos: repos, timeline: timeline, workers: workers}
}

// GetTrips retrieves all trips
func (s *TripService) GetTrips() ([]models.TripContext, error) {
	return s.repos.Trips.GetTrips()
}

// AnalyzeTrip runs every day of a trip. Returns nil when the trip does not exist.
func (s *TripService) AnalyzeTrip(ctx context.Context, id, tz string, persist bool) (*trip.Result, error) {
	t, err := s.repos.Trips.GetTripByID(id)
	if err != nil || t == nil {
		return nil, err
	}

	loc, err := s.timeline.Location(tz)
	if err != nil {
		return nil, err
	}
	p, err := s.timeline.Params()
	if err != nil {
		return nil, err
	}

	first, _, err := pipeline.DaySpan(t.StartDate, loc)
	if err != nil {
		return nil, err
	}
	_, last, err := pipeline.DaySpan(t.EndDate, loc)
	if err != nil {
		return nil, err
	}
	points, err := s.repos.Points.GetPointsBetween(first, last)
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

	start := time.Now()
	agg := trip.NewAggregator(pipeline.NewAnalyzer(p), loc, s.workers)
	res, err := agg.Aggregate(ctx, trip.Input{
		Trip:        *t,
		Locations:   locations,
		Definitions: defs,
		PointsByDay: BucketByDay(points, loc),
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[TripService] Trip %s: %d days (%d without data) in %v",
		t.ID, res.Summary.Days, len(res.Summary.NoDataDays), time.Since(start))

	if persist {
		for i := range res.Days {
			if _, err := s.timeline.SaveRun(models.RunScopeTrip, t.ID, &res.Days[i]); err != nil {
				return nil, err
			}
		}
	}
	return &res, nil
}

// BucketByDay groups points by their local calendar day
func BucketByDay(points []models.LocationPoint, loc *time.Location) map[string][]models.LocationPoint {
	byDay := make(map[string][]models.LocationPoint)
	for _, p := range points {
		day := p.Timestamp.In(loc).Format(models.DateLayout)
		byDay[day] = append(byDay[day], p)
	}
	return byDay
}
