package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/gavraq/location-timeline/internal/database"
	"github.com/gavraq/location-timeline/internal/models"
)

// RunRepository handles database operations for analysis runs and their timeline entries
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new analysis run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// EncodeDiagnostics serializes diagnostics for the diagnostics_json column
func EncodeDiagnostics(diags models.Diagnostics) (string, error) {
	if diags == nil {
		diags = models.Diagnostics{}
	}
	return sonic.MarshalString(diags)
}

// DecodeDiagnostics parses a run's diagnostics_json column
func DecodeDiagnostics(run *models.AnalysisRun) (models.Diagnostics, error) {
	var diags models.Diagnostics
	if run.DiagnosticsJSON == "" {
		return diags, nil
	}
	if err := sonic.UnmarshalString(run.DiagnosticsJSON, &diags); err != nil {
		return nil, fmt.Errorf("failed to decode diagnostics: %w", err)
	}
	return diags, nil
}

// SaveRun stores a run and the timeline entries it produced. A new UUID is
// assigned when run.ID is empty.
func (r *RunRepository) SaveRun(run *models.AnalysisRun, date string, entries []models.TimelineEntry) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	run.EntryCount = len(entries)

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO analysis_runs (
				id, scope, date, trip_id, status, point_count, entry_count,
				diagnostics_json, error_message, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.Scope, run.Date, run.TripID, run.Status, run.PointCount, run.EntryCount,
			run.DiagnosticsJSON, run.ErrorMessage, run.CreatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to create analysis run: %w", err)
		}

		stmt, err := tx.Prepare(`INSERT INTO timeline_entries (
				run_id, date, start_time, end_time, label, kind, confidence,
				location_id, category, activity_type, likelihood, evidence_json
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare entry insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			var evidence interface{}
			if len(e.Evidence) > 0 {
				encoded, err := sonic.MarshalString(e.Evidence)
				if err != nil {
					return fmt.Errorf("failed to encode evidence: %w", err)
				}
				evidence = encoded
			}
			_, err := stmt.Exec(run.ID, date, e.Start.Unix(), e.End.Unix(), e.Label, string(e.Kind), e.Confidence,
				e.LocationID, e.Category, e.ActivityType, string(e.Likelihood), evidence)
			if err != nil {
				return fmt.Errorf("failed to insert timeline entry: %w", err)
			}
		}
		return nil
	})
}

const runColumns = `id, scope, date, trip_id, status, point_count, entry_count,
	diagnostics_json, error_message, created_at`

func scanRun(s scanner) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	var created int64
	err := s.Scan(&run.ID, &run.Scope, &run.Date, &run.TripID, &run.Status, &run.PointCount,
		&run.EntryCount, &run.DiagnosticsJSON, &run.ErrorMessage, &created)
	if err != nil {
		return nil, err
	}
	run.CreatedAt = time.Unix(created, 0).UTC()
	return &run, nil
}

// GetRun retrieves a run by ID
func (r *RunRepository) GetRun(id string) (*models.AnalysisRun, error) {
	run, err := scanRun(r.db.QueryRow("SELECT "+runColumns+" FROM analysis_runs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}
	return run, nil
}

// GetLatestRun retrieves the most recent run for a day
func (r *RunRepository) GetLatestRun(date string) (*models.AnalysisRun, error) {
	run, err := scanRun(r.db.QueryRow("SELECT "+runColumns+
		" FROM analysis_runs WHERE date = ? ORDER BY created_at DESC, rowid DESC LIMIT 1", date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest analysis run: %w", err)
	}
	return run, nil
}

// GetEntries retrieves a run's timeline entries in order
func (r *RunRepository) GetEntries(runID string) ([]models.TimelineEntry, error) {
	rows, err := r.db.Query(`SELECT start_time, end_time, label, kind, confidence,
			location_id, category, activity_type, likelihood, evidence_json
		FROM timeline_entries WHERE run_id = ? ORDER BY start_time, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline entries: %w", err)
	}
	defer rows.Close()

	var entries []models.TimelineEntry
	for rows.Next() {
		var e models.TimelineEntry
		var start, end int64
		var kind, likelihood string
		var evidence sql.NullString
		if err := rows.Scan(&start, &end, &e.Label, &kind, &e.Confidence,
			&e.LocationID, &e.Category, &e.ActivityType, &likelihood, &evidence); err != nil {
			return nil, fmt.Errorf("failed to scan timeline entry: %w", err)
		}
		e.Start = time.Unix(start, 0).UTC()
		e.End = time.Unix(end, 0).UTC()
		e.Kind = models.LabelKind(kind)
		e.Likelihood = models.Likelihood(likelihood)
		if evidence.Valid && evidence.String != "" {
			if err := sonic.UnmarshalString(evidence.String, &e.Evidence); err != nil {
				return nil, fmt.Errorf("failed to decode evidence: %w", err)
			}
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
