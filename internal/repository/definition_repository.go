package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/gavraq/location-timeline/internal/models"
)

// DefinitionRepository handles database operations for activity definitions
type DefinitionRepository struct {
	db *sql.DB
}

// NewDefinitionRepository creates a new definition repository
func NewDefinitionRepository(db *sql.DB) *DefinitionRepository {
	return &DefinitionRepository{db: db}
}

// Save creates or replaces a definition
func (r *DefinitionRepository) Save(def models.ActivityDefinition, enabled bool) error {
	encoded, err := sonic.MarshalString(def)
	if err != nil {
		return fmt.Errorf("failed to encode definition %s: %w", def.ID, err)
	}

	_, err = r.db.Exec(`INSERT INTO activity_definitions (id, kind, enabled, definition_json, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET kind = excluded.kind, enabled = excluded.enabled,
			definition_json = excluded.definition_json`,
		def.ID, def.Kind, enabled, encoded, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save definition %s: %w", def.ID, err)
	}
	return nil
}

// GetEnabled retrieves every enabled definition ordered by ID
func (r *DefinitionRepository) GetEnabled() ([]models.ActivityDefinition, error) {
	rows, err := r.db.Query("SELECT id, definition_json FROM activity_definitions WHERE enabled = 1 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query definitions: %w", err)
	}
	defer rows.Close()

	var defs []models.ActivityDefinition
	for rows.Next() {
		var id, encoded string
		if err := rows.Scan(&id, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan definition: %w", err)
		}
		var def models.ActivityDefinition
		if err := sonic.UnmarshalString(encoded, &def); err != nil {
			return nil, fmt.Errorf("failed to decode definition %s: %w", id, err)
		}
		defs = append(defs, def)
	}

	return defs, rows.Err()
}
