package foundation

import (
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/spatial"
)

type fence struct {
	entry    models.RegistryEntry
	geofence spatial.Geofence
}

// Matcher assigns points to the most specific known location containing them
type Matcher struct {
	fences []fence
}

// NewMatcher precomputes geofences for every visible registry entry
func NewMatcher(registry models.Registry) *Matcher {
	entries := registry.Entries()
	fences := make([]fence, 0, len(entries))
	for _, e := range entries {
		if e.Location.RadiusMeters < 0 {
			continue
		}
		center := spatial.Point{Lat: e.Location.Latitude, Lon: e.Location.Longitude}
		fences = append(fences, fence{
			entry:    e,
			geofence: spatial.NewGeofence(center, e.Location.RadiusMeters),
		})
	}
	return &Matcher{fences: fences}
}

// Match returns the winning location for p.
// Ties resolve by smallest radius, then overlay before global,
// then nearest center, then lexically smallest ID.
func (m *Matcher) Match(p models.LocationPoint) (models.RegistryEntry, float64, bool) {
	var (
		best     *fence
		bestDist float64
	)
	pt := spatial.Point{Lat: p.Latitude, Lon: p.Longitude}

	for i := range m.fences {
		f := &m.fences[i]
		in, d := f.geofence.Contains(pt)
		if !in {
			continue
		}
		if best == nil || beats(f, d, best, bestDist) {
			best, bestDist = f, d
		}
	}

	if best == nil {
		return models.RegistryEntry{}, 0, false
	}
	return best.entry, bestDist, true
}

func beats(a *fence, da float64, b *fence, db float64) bool {
	ra, rb := a.entry.Location.RadiusMeters, b.entry.Location.RadiusMeters
	if ra != rb {
		return ra < rb
	}
	if a.entry.Overlay != b.entry.Overlay {
		return a.entry.Overlay
	}
	if da != db {
		return da < db
	}
	return a.entry.Location.ID < b.entry.Location.ID
}

// Annotate classifies every point by geofence. Velocity fields are left unset.
func (m *Matcher) Annotate(points []models.LocationPoint) []models.ClassifiedPoint {
	out := make([]models.ClassifiedPoint, len(points))
	for i, p := range points {
		out[i] = models.ClassifiedPoint{LocationPoint: p}
		if e, d, ok := m.Match(p); ok {
			out[i].LocationID = e.Location.ID
			out[i].Category = e.Location.Category
			out[i].Overlay = e.Overlay
			out[i].Distance = d
			out[i].Radius = e.Location.RadiusMeters
		}
	}
	return out
}
