package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gavraq/location-timeline/internal/database"
	"github.com/gavraq/location-timeline/internal/models"
)

// TripRepository handles database operations for trips and their overlay locations
type TripRepository struct {
	db     *sql.DB
	places *PlaceRepository
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db, places: NewPlaceRepository(db)}
}

// Save creates or replaces a trip together with its overlay locations
func (r *TripRepository) Save(trip *models.TripContext) error {
	if trip.CreatedAt.IsZero() {
		trip.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO trips (id, name, start_date, end_date, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				start_date = excluded.start_date, end_date = excluded.end_date`,
			trip.ID, trip.Name, trip.StartDate, trip.EndDate, trip.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to save trip: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM known_locations WHERE trip_id = ?", trip.ID); err != nil {
			return fmt.Errorf("failed to clear trip locations: %w", err)
		}
		for _, loc := range trip.Locations {
			if err := saveLocation(tx, loc, trip.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTrips retrieves all trips without their locations, most recent first
func (r *TripRepository) GetTrips() ([]models.TripContext, error) {
	rows, err := r.db.Query("SELECT id, name, start_date, end_date, created_at FROM trips ORDER BY start_date DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var trips []models.TripContext
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}

	return trips, rows.Err()
}

// GetTripByID retrieves a single trip with its overlay locations
func (r *TripRepository) GetTripByID(id string) (*models.TripContext, error) {
	row := r.db.QueryRow("SELECT id, name, start_date, end_date, created_at FROM trips WHERE id = ?", id)
	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t.Locations, err = r.places.GetLocations(models.PlaceFilter{TripID: id})
	if err != nil {
		return nil, err
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTrip(s scanner) (*models.TripContext, error) {
	var t models.TripContext
	var created int64
	err := s.Scan(&t.ID, &t.Name, &t.StartDate, &t.EndDate, &created)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan trip: %w", err)
	}
	t.CreatedAt = time.Unix(created, 0).UTC()
	return &t, nil
}
