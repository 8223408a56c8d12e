package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gavraq/location-timeline/internal/database"
	"github.com/gavraq/location-timeline/internal/models"
)

// LocationPointRepository handles database operations for raw GPS points
type LocationPointRepository struct {
	db *sql.DB
}

// NewLocationPointRepository creates a new location point repository
func NewLocationPointRepository(db *sql.DB) *LocationPointRepository {
	return &LocationPointRepository{db: db}
}

// InsertPoints stores points in a single transaction
func (r *LocationPointRepository) InsertPoints(points []models.LocationPoint) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare("INSERT INTO location_points (timestamp, latitude, longitude, accuracy) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare point insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range points {
			if _, err := stmt.Exec(p.Timestamp.Unix(), p.Latitude, p.Longitude, p.Accuracy); err != nil {
				return fmt.Errorf("failed to insert point: %w", err)
			}
		}
		return nil
	})
}

// GetPoints retrieves points in timestamp order with optional pagination
func (r *LocationPointRepository) GetPoints(filter models.LocationPointFilter) ([]models.LocationPoint, error) {
	query := "SELECT timestamp, latitude, longitude, accuracy FROM location_points"

	var conditions []string
	var args []interface{}

	if filter.StartTime > 0 {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "timestamp < ?")
		args = append(args, filter.EndTime)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp ASC, id ASC"

	if filter.PageSize > 0 {
		if filter.Page < 1 {
			filter.Page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query location points: %w", err)
	}
	defer rows.Close()

	var points []models.LocationPoint
	for rows.Next() {
		var p models.LocationPoint
		var ts int64
		if err := rows.Scan(&ts, &p.Latitude, &p.Longitude, &p.Accuracy); err != nil {
			return nil, fmt.Errorf("failed to scan location point: %w", err)
		}
		p.Timestamp = time.Unix(ts, 0).UTC()
		points = append(points, p)
	}

	return points, rows.Err()
}

// GetPointsBetween retrieves every point in [start, end)
func (r *LocationPointRepository) GetPointsBetween(start, end time.Time) ([]models.LocationPoint, error) {
	return r.GetPoints(models.LocationPointFilter{StartTime: start.Unix(), EndTime: end.Unix()})
}
