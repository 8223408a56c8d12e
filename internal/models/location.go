package models

import "time"

// LocationPoint is a single GPS fix
type LocationPoint struct {
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Latitude  float64   `json:"latitude" db:"latitude"`           // Decimal degrees, [-90, 90]
	Longitude float64   `json:"longitude" db:"longitude"`         // Decimal degrees, [-180, 180]
	Accuracy  float64   `json:"accuracy,omitempty" db:"accuracy"` // Meters, 0 when unknown
}

// ValidCoordinates reports whether the point lies on the globe
func (p LocationPoint) ValidCoordinates() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// Known location categories understood by the built-in detectors
const (
	CategoryHome    = "home"
	CategoryOffice  = "office"
	CategoryParkrun = "parkrun"
	CategoryGolf    = "golf"
)

// KnownLocation is a named circular geofence
type KnownLocation struct {
	ID           string            `json:"id" db:"id"`
	Name         string            `json:"name" db:"name"`
	Category     string            `json:"category" db:"category"` // home, office, parkrun, golf, ...
	Latitude     float64           `json:"latitude" db:"latitude"`
	Longitude    float64           `json:"longitude" db:"longitude"`
	RadiusMeters float64           `json:"radiusMeters" db:"radius_meters"`
	Metadata     map[string]string `json:"metadata,omitempty" db:"metadata_json"`
}

// RegistryEntry is a known location together with its origin
type RegistryEntry struct {
	Location KnownLocation
	Overlay  bool
}

// Registry holds the global known locations and an optional trip overlay.
// A Registry is treated as immutable once built.
type Registry struct {
	Locations []KnownLocation `json:"locations"`
	Overlay   []KnownLocation `json:"overlay,omitempty"`
}

// NewRegistry builds a registry over the global locations
func NewRegistry(locations []KnownLocation) Registry {
	return Registry{Locations: append([]KnownLocation(nil), locations...)}
}

// WithOverlay returns a new registry carrying the trip's locations as overlay.
// The receiver is left untouched.
func (r Registry) WithOverlay(trip *TripContext) Registry {
	out := Registry{Locations: append([]KnownLocation(nil), r.Locations...)}
	if trip != nil {
		out.Overlay = append([]KnownLocation(nil), trip.Locations...)
	}
	return out
}

// Entries returns overlay entries followed by the global entries they do not shadow
func (r Registry) Entries() []RegistryEntry {
	entries := make([]RegistryEntry, 0, len(r.Locations)+len(r.Overlay))
	shadowed := make(map[string]bool, len(r.Overlay))
	for _, loc := range r.Overlay {
		shadowed[loc.ID] = true
		entries = append(entries, RegistryEntry{Location: loc, Overlay: true})
	}
	for _, loc := range r.Locations {
		if shadowed[loc.ID] {
			continue
		}
		entries = append(entries, RegistryEntry{Location: loc})
	}
	return entries
}

// Lookup finds a location by ID, overlay first
func (r Registry) Lookup(id string) (KnownLocation, bool) {
	for _, e := range r.Entries() {
		if e.Location.ID == id {
			return e.Location, true
		}
	}
	return KnownLocation{}, false
}

// ByCategory returns all visible locations of a category
func (r Registry) ByCategory(category string) []KnownLocation {
	var out []KnownLocation
	for _, e := range r.Entries() {
		if e.Location.Category == category {
			out = append(out, e.Location)
		}
	}
	return out
}
