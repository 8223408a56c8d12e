package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/gavraq/location-timeline/internal/database"
	"github.com/gavraq/location-timeline/internal/models"
)

// PlaceRepository handles database operations for known locations
type PlaceRepository struct {
	db *sql.DB
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *sql.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// nullable maps an empty trip ID to NULL, the global registry
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func saveLocation(ex execer, loc models.KnownLocation, tripID string) error {
	var metadata interface{}
	if len(loc.Metadata) > 0 {
		encoded, err := sonic.MarshalString(loc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", loc.ID, err)
		}
		metadata = encoded
	}

	if _, err := ex.Exec("DELETE FROM known_locations WHERE location_id = ? AND trip_id IS ?", loc.ID, nullable(tripID)); err != nil {
		return fmt.Errorf("failed to replace location %s: %w", loc.ID, err)
	}
	_, err := ex.Exec(`INSERT INTO known_locations (
			location_id, trip_id, name, category, latitude, longitude, radius_meters, metadata_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		loc.ID, nullable(tripID), loc.Name, loc.Category, loc.Latitude, loc.Longitude, loc.RadiusMeters, metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to save location %s: %w", loc.ID, err)
	}
	return nil
}

// SaveLocation creates or replaces a location. An empty tripID saves it to the global registry.
func (r *PlaceRepository) SaveLocation(loc models.KnownLocation, tripID string) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		return saveLocation(tx, loc, tripID)
	})
}

// GetLocations retrieves the global registry, or a trip's overlay when filter.TripID is set
func (r *PlaceRepository) GetLocations(filter models.PlaceFilter) ([]models.KnownLocation, error) {
	query := `SELECT location_id, name, category, latitude, longitude, radius_meters, metadata_json
		FROM known_locations`

	conditions := []string{"trip_id IS ?"}
	args := []interface{}{nullable(filter.TripID)}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	query += " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY location_id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []models.KnownLocation
	for rows.Next() {
		var loc models.KnownLocation
		var metadata sql.NullString
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Category, &loc.Latitude, &loc.Longitude,
			&loc.RadiusMeters, &metadata); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		if metadata.Valid && metadata.String != "" {
			if err := sonic.UnmarshalString(metadata.String, &loc.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata for %s: %w", loc.ID, err)
			}
		}
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}
