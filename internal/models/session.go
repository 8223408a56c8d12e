package models

import "time"

// LabelKind orders the sources a timeline entry can come from
type LabelKind string

const (
	KindDetectedActivity LabelKind = "detected_activity"
	KindKnownLocation    LabelKind = "known_location"
	KindTravelMode       LabelKind = "travel_mode"
	KindUnclassified     LabelKind = "unclassified"
)

// Priority returns the painting rank, higher wins
func (k LabelKind) Priority() int {
	switch k {
	case KindDetectedActivity:
		return 3
	case KindKnownLocation:
		return 2
	case KindTravelMode:
		return 1
	}
	return 0
}

// Label identifies what a point, session or timeline entry represents
type Label struct {
	Kind  LabelKind `json:"kind"`
	Value string    `json:"value"` // location ID, band name or activity type
}

// UnclassifiedLabel is the label of time nothing else explains
var UnclassifiedLabel = Label{Kind: KindUnclassified, Value: "Unclassified"}

// ClassifiedPoint is a location point annotated with its geofence match and velocity
type ClassifiedPoint struct {
	LocationPoint
	LocationID  string       `json:"locationId,omitempty"`
	Category    string       `json:"category,omitempty"`
	Overlay     bool         `json:"overlay,omitempty"`
	Distance    float64      `json:"distanceToCenter,omitempty"` // Meters to matched location center
	Radius      float64      `json:"radius,omitempty"`           // Radius of matched location
	Velocity    float64      `json:"velocity,omitempty"`         // m/s
	HasVelocity bool         `json:"hasVelocity"`
	Band        VelocityBand `json:"band"`
}

// Label returns the point's baseline label: location match first, then band
func (p ClassifiedPoint) Label() Label {
	if p.LocationID != "" {
		return Label{Kind: KindKnownLocation, Value: p.LocationID}
	}
	if p.Band != BandUnknown {
		return Label{Kind: KindTravelMode, Value: p.Band.String()}
	}
	return UnclassifiedLabel
}

// Session is a maximal run of consecutive points sharing a label
type Session struct {
	ID           string            `json:"id"`
	Label        Label             `json:"label"`
	LocationID   string            `json:"locationId,omitempty"`
	Category     string            `json:"category,omitempty"`
	Start        time.Time         `json:"start"`
	End          time.Time         `json:"end"`
	CentroidLat  float64           `json:"centroidLat"`
	CentroidLon  float64           `json:"centroidLon"`
	PathDistance float64           `json:"pathDistance"` // Meters along the points
	MeanVelocity float64           `json:"meanVelocity"` // m/s, mean of defined point velocities
	DominantBand VelocityBand      `json:"dominantBand"`
	PointCount   int               `json:"pointCount"`
	Points       []ClassifiedPoint `json:"-"`
}

// Duration returns the session's time span
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// IsLocation reports whether the session is a stay at a known location
func (s Session) IsLocation() bool {
	return s.Label.Kind == KindKnownLocation
}

// IsTravel reports whether the session is a travel-mode run
func (s Session) IsTravel() bool {
	return s.Label.Kind == KindTravelMode
}
