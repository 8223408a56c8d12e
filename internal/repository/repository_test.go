package repository

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavraq/location-timeline/internal/database"
	"github.com/gavraq/location-timeline/internal/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLocationPointsRoundTrip(t *testing.T) {
	repo := NewLocationPointRepository(setupTestDB(t))
	base := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	points := []models.LocationPoint{
		{Timestamp: base.Add(2 * time.Minute), Latitude: 51.1, Longitude: -0.1, Accuracy: 5},
		{Timestamp: base, Latitude: 51.0, Longitude: -0.2},
		{Timestamp: base.Add(24 * time.Hour), Latitude: 52, Longitude: -1},
	}
	require.NoError(t, repo.InsertPoints(points))

	got, err := repo.GetPointsBetween(base, base.Add(time.Hour))
	require.NoError(t, err)
	want := []models.LocationPoint{points[1], points[0]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}

	page, err := repo.GetPoints(models.LocationPointFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, points[2].Timestamp, page[0].Timestamp)
}

func TestPlacesSeparateGlobalAndTrip(t *testing.T) {
	db := setupTestDB(t)
	places := NewPlaceRepository(db)
	trips := NewTripRepository(db)

	home := models.KnownLocation{
		ID: "home", Name: "Home", Category: models.CategoryHome,
		Latitude: 51.45, Longitude: -0.97, RadiusMeters: 100,
		Metadata: map[string]string{"postcode": "RG1"},
	}
	require.NoError(t, places.SaveLocation(home, ""))
	home.Name = "Home Sweet Home"
	require.NoError(t, places.SaveLocation(home, ""))

	trip := &models.TripContext{
		ID: "nice", Name: "Nice", StartDate: "2024-07-01", EndDate: "2024-07-05",
		Locations: []models.KnownLocation{
			{ID: "hotel", Name: "Hotel", Category: "hotel", Latitude: 43.7, Longitude: 7.26, RadiusMeters: 80},
			{ID: "home", Name: "Villa", Category: models.CategoryHome, Latitude: 43.71, Longitude: 7.27, RadiusMeters: 60},
		},
	}
	require.NoError(t, trips.Save(trip))

	global, err := places.GetLocations(models.PlaceFilter{})
	require.NoError(t, err)
	if diff := cmp.Diff([]models.KnownLocation{home}, global); diff != "" {
		t.Errorf("global registry mismatch (-want +got):\n%s", diff)
	}

	homes, err := places.GetLocations(models.PlaceFilter{TripID: "nice", Category: models.CategoryHome})
	require.NoError(t, err)
	require.Len(t, homes, 1)
	assert.Equal(t, "Villa", homes[0].Name)

	got, err := trips.GetTripByID("nice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-07-05", got.EndDate)
	assert.Len(t, got.Locations, 2)
	assert.Equal(t, trip.CreatedAt, got.CreatedAt)

	missing, err := trips.GetTripByID("nowhere")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	all, err := trips.GetTrips()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDefinitionsRoundTrip(t *testing.T) {
	repo := NewDefinitionRepository(setupTestDB(t))
	walk := models.ActivityDefinition{
		ID: "dog-walk", Name: "Dog walk", Kind: "visit", ActivityType: "Dog Walk",
		Schedule: []models.ScheduleWindow{{
			Weekdays: []time.Weekday{time.Saturday, time.Sunday}, Start: "07:00", End: "10:00",
		}},
		Participants:       []string{"Gavin", "Rosie"},
		LocationIDs:        []string{"woods"},
		VelocityBands:      []models.VelocityBand{models.BandWalking},
		MinDurationSeconds: 1200,
		MaxDurationSeconds: 7200,
	}
	disabled := models.ActivityDefinition{ID: "golf", Kind: "golf", ActivityType: "Golf"}

	require.NoError(t, repo.Save(walk, true))
	require.NoError(t, repo.Save(disabled, false))

	got, err := repo.GetEnabled()
	require.NoError(t, err)
	if diff := cmp.Diff([]models.ActivityDefinition{walk}, got); diff != "" {
		t.Errorf("definitions mismatch (-want +got):\n%s", diff)
	}
}

func TestThresholdDefaults(t *testing.T) {
	repo := NewThresholdRepository(setupTestDB(t))
	golf := &models.ThresholdProfile{Name: "golf-slow", SkillName: models.SkillGolf, IsDefault: true, ParamsJSON: `{"minDurationS":900}`}
	other := &models.ThresholdProfile{Name: "cluster-loose", SkillName: models.SkillCluster, ParamsJSON: `{"gapToleranceS":900}`}
	require.NoError(t, repo.Save(golf))
	require.NoError(t, repo.Save(other))
	assert.NotZero(t, golf.ID)

	defaults, err := repo.GetDefaults()
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, "golf-slow", defaults[0].Name)
	assert.True(t, defaults[0].IsDefault)
	assert.Equal(t, `{"minDurationS":900}`, defaults[0].ParamsJSON)
}

func TestRunWithEntriesAndDiagnostics(t *testing.T) {
	repo := NewRunRepository(setupTestDB(t))
	at := time.Date(2024, 3, 2, 9, 12, 0, 0, time.UTC)
	diags := models.Diagnostics{}
	diags.AddAt(models.SeverityWarning, models.DiagInvalidCoordinate, "dropped point", at)
	diags.Add(models.SeverityInfo, models.DiagOutOfDay, "ignored 3 points")

	encoded, err := EncodeDiagnostics(diags)
	require.NoError(t, err)

	entries := []models.TimelineEntry{
		{Start: at, End: at.Add(time.Hour), Label: "Parkrun", Kind: models.KindDetectedActivity, Confidence: 0.9,
			ActivityType: "Parkrun", Likelihood: models.LikelihoodHigh, LocationID: "park",
			Evidence: []models.Criterion{{Name: "weekday", Passed: true, Observed: "Saturday", Expected: "Saturday"}}},
		{Start: at.Add(time.Hour), End: at.Add(2 * time.Hour), Label: "Home", Kind: models.KindKnownLocation,
			Confidence: 0.8, LocationID: "home", Category: "home"},
	}
	run := &models.AnalysisRun{Scope: models.RunScopeDay, Date: "2024-03-02", Status: models.RunStatusCompleted,
		PointCount: 42, DiagnosticsJSON: encoded}
	require.NoError(t, repo.SaveRun(run, "2024-03-02", entries))
	assert.Len(t, run.ID, 36)

	got, err := repo.GetRun(run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.EntryCount)
	assert.Equal(t, 42, got.PointCount)

	decoded, err := DecodeDiagnostics(got)
	require.NoError(t, err)
	if diff := cmp.Diff(diags, decoded); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}

	stored, err := repo.GetEntries(run.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(entries, stored); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	latest, err := repo.GetLatestRun("2024-03-02")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)

	none, err := repo.GetLatestRun("2024-03-03")
	assert.NoError(t, err)
	assert.Nil(t, none)
}
