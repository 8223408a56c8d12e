package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavraq/location-timeline/internal/models"
)

var venue = models.KnownLocation{
	ID: "bushy-parkrun", Name: "Bushy parkrun", Category: models.CategoryParkrun,
	Latitude: 51.41, Longitude: -0.33, RadiusMeters: 300,
}

func parkrunDef() models.ActivityDefinition {
	return models.ActivityDefinition{ID: "parkrun", Kind: "parkrun", ActivityType: ActivityParkrun}
}

// Cycle 5.7 km north to the venue from 08:30, mill about, run 25 minutes,
// walk it off, then cycle home at 09:47
func parkrunMorning(day time.Time) []models.LocationPoint {
	startLat, startLon := offset(venue.Latitude, venue.Longitude, 180, 5800)
	tr := newTrack(day.Add(8*time.Hour+30*time.Minute), startLat, startLon).
		move(0, 5, 19*time.Minute, 30*time.Second). // arrives 100 m short of the centre at 08:49
		stay(11*time.Minute, time.Minute).
		shuttle(0, 3.3, 25*time.Minute, 30*time.Second).
		stay(22*time.Minute, time.Minute).
		move(180, 5, 19*time.Minute, 30*time.Second)
	return tr.points
}

func evidence(c models.ActivityCandidate, name string) models.Criterion {
	for _, e := range c.Evidence {
		if e.Name == name {
			return e
		}
	}
	return models.Criterion{}
}

func TestParkrunWithCycleLegs(t *testing.T) {
	saturday := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	in := prepare(parkrunMorning(saturday), models.NewRegistry([]models.KnownLocation{venue}))

	out := detect(t, parkrunDef(), in)
	require.Len(t, out, 1)
	c := out[0]
	assert.Equal(t, ActivityParkrun, c.ActivityType)
	assert.Equal(t, models.LikelihoodHigh, c.Likelihood)
	assert.InDelta(t, 1.0, c.Confidence, 1e-9)
	assert.True(t, evidence(c, "cycled_to").Passed)
	assert.True(t, evidence(c, "cycled_from").Passed)
	assert.True(t, evidence(c, "morning_window").Passed)
	assert.Len(t, c.SessionIDs, 3)

	// The venue session starts as the rider enters the fence
	assert.False(t, c.Start.Before(saturday.Add(8*time.Hour+48*time.Minute)))
	assert.False(t, c.Start.After(saturday.Add(8*time.Hour+49*time.Minute)))
	assert.InDelta(t, 58, c.Duration().Minutes(), 1.5)
}

func TestParkrunRequiresSaturday(t *testing.T) {
	sunday := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	in := prepare(parkrunMorning(sunday), models.NewRegistry([]models.KnownLocation{venue}))
	assert.Empty(t, detect(t, parkrunDef(), in))
}

func TestParkrunWithoutCyclingIsMedium(t *testing.T) {
	saturday := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	tr := newTrack(saturday.Add(12*time.Hour), venue.Latitude, venue.Longitude).
		shuttle(0, 3.3, 30*time.Minute, 30*time.Second)
	in := prepare(tr.points, models.NewRegistry([]models.KnownLocation{venue}))

	out := detect(t, parkrunDef(), in)
	require.Len(t, out, 1)
	assert.Equal(t, models.LikelihoodMedium, out[0].Likelihood)
	assert.InDelta(t, 0.5, out[0].Confidence, 1e-9)
	assert.False(t, evidence(out[0], "cycled_to").Passed)
	assert.False(t, evidence(out[0], "morning_window").Passed)
}

func TestParkrunIgnoresStandingAround(t *testing.T) {
	saturday := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	tr := newTrack(saturday.Add(9*time.Hour), venue.Latitude, venue.Longitude).
		stay(40*time.Minute, time.Minute)
	in := prepare(tr.points, models.NewRegistry([]models.KnownLocation{venue}))
	assert.Empty(t, detect(t, parkrunDef(), in))
}
