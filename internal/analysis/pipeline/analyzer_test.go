package pipeline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavraq/location-timeline/internal/analysis"
	_ "github.com/gavraq/location-timeline/internal/analysis/activity"
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
)

const homeLat, homeLon = 51.4545, -0.9781

var registry = models.NewRegistry([]models.KnownLocation{
	{ID: "home", Name: "Home", Category: models.CategoryHome, Latitude: homeLat, Longitude: homeLon, RadiusMeters: 100},
})

// atHome emits a point at home every step over [from, to)
func atHome(from, to time.Time, step time.Duration) []models.LocationPoint {
	var out []models.LocationPoint
	for t := from; t.Before(to); t = t.Add(step) {
		out = append(out, models.LocationPoint{Timestamp: t, Latitude: homeLat, Longitude: homeLon})
	}
	return out
}

func TestAnalyzeDayNoData(t *testing.T) {
	res, err := NewAnalyzer(params.Default()).AnalyzeDay(DayInput{Date: "2024-03-02", Registry: registry})
	require.NoError(t, err)

	assert.True(t, res.NoData)
	require.Len(t, res.Timeline.Entries, 1)
	assert.Equal(t, models.KindUnclassified, res.Timeline.Entries[0].Kind)
	assert.Equal(t, 24*time.Hour, res.Timeline.Entries[0].Duration())
	require.True(t, res.Diagnostics.Has(models.DiagNoData))
	assert.Equal(t, "2024-03-02", res.Diagnostics[0].Date)
}

func TestAnalyzeDayAtHome(t *testing.T) {
	day := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	points := atHome(day, day.Add(24*time.Hour), 5*time.Minute)

	res, err := NewAnalyzer(params.Default()).AnalyzeDay(DayInput{Date: "2024-03-02", Points: points, Registry: registry})
	require.NoError(t, err)

	assert.False(t, res.NoData)
	assert.Equal(t, len(points), res.PointCount)
	require.Len(t, res.Sessions, 1)
	assert.Empty(t, res.Candidates)

	require.Len(t, res.Timeline.Entries, 2)
	home := res.Timeline.Entries[0]
	assert.Equal(t, "Home", home.Label)
	assert.Equal(t, models.KindKnownLocation, home.Kind)
	assert.Equal(t, day, home.Start)
	assert.Equal(t, day.Add(23*time.Hour+55*time.Minute), home.End)
	assert.InDelta(t, 1.0, home.Confidence, 1e-9)
	assert.Equal(t, models.KindUnclassified, res.Timeline.Entries[1].Kind)
	assert.Equal(t, day.Add(24*time.Hour), res.Timeline.Entries[1].End)
}

func TestAnalyzeDayUsesLocalCalendarDay(t *testing.T) {
	bst := time.FixedZone("BST", 3600)
	// 23:30 UTC on the 1st is 00:30 local on the 2nd
	late := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	points := atHome(late, late.Add(time.Hour), 5*time.Minute)

	a := NewAnalyzer(params.Default())
	res, err := a.AnalyzeDay(DayInput{Date: "2024-06-02", Location: bst, Points: points, Registry: registry})
	require.NoError(t, err)
	assert.Equal(t, len(points), res.PointCount)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, bst), res.Timeline.Start)
	assert.Equal(t, bst, res.Timeline.Entries[0].Start.Location())

	res, err = a.AnalyzeDay(DayInput{Date: "2024-06-01", Location: bst, Points: points, Registry: registry})
	require.NoError(t, err)
	assert.True(t, res.NoData)
	assert.True(t, res.Diagnostics.Has(models.DiagOutOfDay))
}

func TestAnalyzeDayLeavesInputUntouched(t *testing.T) {
	day := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	points := atHome(day, day.Add(time.Hour), 5*time.Minute)
	points[0], points[1] = points[1], points[0]
	before := append([]models.LocationPoint(nil), points...)

	res, err := NewAnalyzer(params.Default()).AnalyzeDay(DayInput{
		Date: "2024-03-02", Location: time.FixedZone("X", 7200), Points: points, Registry: registry,
	})
	require.NoError(t, err)
	assert.True(t, res.Diagnostics.Has(models.DiagAnomalousOrdering))
	assert.Equal(t, before, points)
}

func TestAnalyzeDayBadPointOnlyAddsDiagnostic(t *testing.T) {
	day := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	clean := atHome(day, day.Add(2*time.Hour), 5*time.Minute)

	invalid := append([]models.LocationPoint(nil), clean[:6]...)
	invalid = append(invalid, models.LocationPoint{Timestamp: day.Add(27 * time.Minute), Latitude: 95, Longitude: homeLon})
	invalid = append(invalid, clean[6:]...)

	swapped := append([]models.LocationPoint(nil), clean...)
	swapped[3], swapped[4] = swapped[4], swapped[3]

	tests := []struct {
		name  string
		dirty []models.LocationPoint
		code  string
	}{
		{"invalid coordinate", invalid, models.DiagInvalidCoordinate},
		{"out of order", swapped, models.DiagAnomalousOrdering},
	}

	a := NewAnalyzer(params.Default())
	want, err := a.AnalyzeDay(DayInput{Date: "2024-03-02", Points: clean, Registry: registry})
	require.NoError(t, err)
	assert.False(t, want.Diagnostics.Has(models.DiagInvalidCoordinate))
	assert.False(t, want.Diagnostics.Has(models.DiagAnomalousOrdering))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.AnalyzeDay(DayInput{Date: "2024-03-02", Points: tt.dirty, Registry: registry})
			require.NoError(t, err)
			assert.True(t, got.Diagnostics.Has(tt.code))
			if diff := cmp.Diff(want.Timeline, got.Timeline); diff != "" {
				t.Errorf("timeline changed (-clean +dirty):\n%s", diff)
			}
		})
	}
}

type explodingDetector struct {
	analysis.BaseDetector
}

func (explodingDetector) Detect(analysis.DetectionInput) []models.ActivityCandidate {
	panic("boom")
}

func TestAnalyzeDaySurvivesDetectorFailure(t *testing.T) {
	day := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	a := NewAnalyzer(params.Default())
	a.Detectors = analysis.NewSetOf(explodingDetector{analysis.NewBaseDetector("boom", "Boom", time.Hour)})

	res, err := a.AnalyzeDay(DayInput{Date: "2024-03-02", Points: atHome(day, day.Add(time.Hour), 5*time.Minute), Registry: registry})
	require.NoError(t, err)
	assert.True(t, res.Diagnostics.Has(models.DiagDetectorFailure))
	assert.NotEmpty(t, res.Timeline.Entries)
}

func TestAnalyzeDayRejectsBadDate(t *testing.T) {
	_, err := NewAnalyzer(params.Default()).AnalyzeDay(DayInput{Date: "02/03/2024"})
	assert.Error(t, err)
}
