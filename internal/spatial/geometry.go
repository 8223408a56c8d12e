package spatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Orb converts to an orb point, which is ordered lon/lat
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Centroid calculates the centroid of a set of points.
// The centroid is planar in lon/lat.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = p.Orb()
	}
	c, _ := planar.CentroidArea(mp)
	return Point{Lat: c.Lat(), Lon: c.Lon()}
}

// PathLength calculates the total length of a path (sequence of points) in meters
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var totalDist float64
	for i := 1; i < len(points); i++ {
		totalDist += Distance(points[i-1], points[i])
	}

	return totalDist
}
