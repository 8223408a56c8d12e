package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gavraq/location-timeline/internal/models"
)

// ThresholdRepository handles database operations for threshold profiles
type ThresholdRepository struct {
	db *sql.DB
}

// NewThresholdRepository creates a new threshold profile repository
func NewThresholdRepository(db *sql.DB) *ThresholdRepository {
	return &ThresholdRepository{db: db}
}

// Save creates or replaces a profile by name
func (r *ThresholdRepository) Save(p *models.ThresholdProfile) error {
	now := time.Now().UTC().Truncate(time.Second)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := r.db.Exec(`INSERT INTO threshold_profiles (
			name, description, is_default, skill_name, params_json, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET description = excluded.description,
			is_default = excluded.is_default, skill_name = excluded.skill_name,
			params_json = excluded.params_json, updated_at = excluded.updated_at`,
		p.Name, p.Description, p.IsDefault, p.SkillName, p.ParamsJSON, p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save threshold profile: %w", err)
	}

	if p.ID == 0 {
		if err := r.db.QueryRow("SELECT id FROM threshold_profiles WHERE name = ?", p.Name).Scan(&p.ID); err != nil {
			return fmt.Errorf("failed to get profile id: %w", err)
		}
	}
	return nil
}

// GetDefaults retrieves the default profile of every skill, ordered by skill name
func (r *ThresholdRepository) GetDefaults() ([]models.ThresholdProfile, error) {
	rows, err := r.db.Query(`SELECT id, name, description, is_default, skill_name, params_json, created_at, updated_at
		FROM threshold_profiles WHERE is_default = 1 ORDER BY skill_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query threshold profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.ThresholdProfile
	for rows.Next() {
		var p models.ThresholdProfile
		var created, updated int64
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.IsDefault, &p.SkillName, &p.ParamsJSON,
			&created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan threshold profile: %w", err)
		}
		p.CreatedAt = time.Unix(created, 0).UTC()
		p.UpdatedAt = time.Unix(updated, 0).UTC()
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}
