package spatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// boundPadMeters keeps float error at the fence edge from rejecting boundary points
const boundPadMeters = 1.0

// Geofence is a circular fence with a precomputed bounding box
type Geofence struct {
	Center       Point
	RadiusMeters float64
	bound        orb.Bound
	wraps        bool // bound reaches the antimeridian, prefilter is skipped
}

// NewGeofence builds a fence around center
func NewGeofence(center Point, radiusMeters float64) Geofence {
	b := geo.NewBoundAroundPoint(center.Orb(), radiusMeters)
	padded := geo.BoundPad(b, boundPadMeters)
	wraps := b.Min.Lon() <= -180 || b.Max.Lon() >= 180 ||
		padded.Min.Lon() <= -180 || padded.Max.Lon() >= 180
	return Geofence{
		Center:       center,
		RadiusMeters: radiusMeters,
		bound:        padded,
		wraps:        wraps,
	}
}

// Contains reports whether p is within the radius, boundary inclusive,
// and returns the distance to the center. The distance is -1 when the
// bounding box prefilter rejects the point.
func (g Geofence) Contains(p Point) (bool, float64) {
	if !g.wraps && !g.bound.Contains(p.Orb()) {
		return false, -1
	}
	d := Distance(g.Center, p)
	return d <= g.RadiusMeters, d
}

// Near reports whether p lies within radius plus extra meters of the center
func (g Geofence) Near(p Point, extraMeters float64) bool {
	return Distance(g.Center, p) <= g.RadiusMeters+extraMeters
}
