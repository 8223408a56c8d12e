package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavraq/location-timeline/internal/models"
)

var course = models.KnownLocation{
	ID: "royal-golf", Name: "Royal Golf Club", Category: models.CategoryGolf,
	Latitude: 51.40, Longitude: -0.30, RadiusMeters: 600,
}

func golfDef() models.ActivityDefinition {
	return models.ActivityDefinition{ID: "golf", Kind: "golf", ActivityType: ActivityGolf}
}

// A round: ten 2.5 minute walking legs at 1.2 m/s with 132 s pauses
// between shots. About 45 minutes, 1800 m walked.
func roundOfGolf(start time.Time) []models.LocationPoint {
	tr := newTrack(start, course.Latitude, course.Longitude)
	bearing := 0.0
	for leg := 0; leg < 10; leg++ {
		tr.move(bearing, 1.2, 150*time.Second, 30*time.Second)
		if leg < 9 {
			tr.stay(132*time.Second, 132*time.Second)
		}
		bearing = 180 - bearing
	}
	return tr.points
}

func TestGolfHighLikelihood(t *testing.T) {
	start := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)
	in := prepare(roundOfGolf(start), models.NewRegistry([]models.KnownLocation{course}))

	out := detect(t, golfDef(), in)
	require.Len(t, out, 1)
	c := out[0]
	assert.Equal(t, ActivityGolf, c.ActivityType)
	assert.Equal(t, models.LikelihoodHigh, c.Likelihood)
	assert.GreaterOrEqual(t, c.Confidence, 0.7)
	assert.Equal(t, start, c.Start)
	assert.InDelta(t, 44.8, c.Duration().Minutes(), 0.1)
	assert.Equal(t, "royal-golf", c.LocationID)

	byName := map[string]models.Criterion{}
	for _, e := range c.Evidence {
		byName[e.Name] = e
	}
	assert.True(t, byName["duration"].Passed)
	assert.True(t, byName["mean_velocity"].Passed)
	assert.True(t, byName["distance"].Passed)
}

func TestGolfNotDetectedWhenDriving(t *testing.T) {
	start := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)
	tr := newTrack(start, course.Latitude, course.Longitude).
		shuttle(90, 5, 45*time.Minute, 30*time.Second)
	in := prepare(tr.points, models.NewRegistry([]models.KnownLocation{course}))

	assert.Empty(t, detect(t, golfDef(), in))
}

func TestGolfMediumWhenRoundTooShort(t *testing.T) {
	start := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)
	// 12 minutes at 1 m/s: 720 m walked, velocity fine, duration too short
	tr := newTrack(start, course.Latitude, course.Longitude).
		shuttle(0, 1.0, 12*time.Minute, 30*time.Second)
	in := prepare(tr.points, models.NewRegistry([]models.KnownLocation{course}))

	out := detect(t, golfDef(), in)
	require.Len(t, out, 1)
	assert.Equal(t, models.LikelihoodMedium, out[0].Likelihood)
	assert.GreaterOrEqual(t, out[0].Confidence, 0.4)
	assert.Less(t, out[0].Confidence, 0.7)
}

func TestGolfLowWhenOnlyVelocityFits(t *testing.T) {
	start := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)
	// 8 minutes at 0.9 m/s: 432 m, too short on both duration and distance
	tr := newTrack(start, course.Latitude, course.Longitude).
		shuttle(0, 0.9, 8*time.Minute, 30*time.Second)
	in := prepare(tr.points, models.NewRegistry([]models.KnownLocation{course}))

	out := detect(t, golfDef(), in)
	require.Len(t, out, 1)
	assert.Equal(t, models.LikelihoodLow, out[0].Likelihood)
	assert.Less(t, out[0].Confidence, 0.4)
}

func TestGolfIgnoresPointsOutsideCourse(t *testing.T) {
	start := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)
	lat, lon := offset(course.Latitude, course.Longitude, 90, 5000)
	tr := newTrack(start, lat, lon).shuttle(0, 1.2, 45*time.Minute, 30*time.Second)
	in := prepare(tr.points, models.NewRegistry([]models.KnownLocation{course}))

	assert.Empty(t, detect(t, golfDef(), in))
}
