package models

import "time"

// ThresholdProfile stores a named parameter override for one pipeline stage
type ThresholdProfile struct {
	ID int64 `json:"id" db:"id"`

	// Profile identification
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	IsDefault   bool   `json:"is_default" db:"is_default"`

	// Stage name
	SkillName string `json:"skill_name" db:"skill_name"` // e.g., "velocity", "cluster", "golf"

	// Parameters (JSON)
	ParamsJSON string `json:"params_json" db:"params_json"` // Partial JSON object merged over the defaults

	// Metadata
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Skill names accepted in threshold profiles
const (
	SkillVelocity = "velocity"
	SkillCluster  = "cluster"
	SkillTimeline = "timeline"
	SkillCommute  = "commute"
	SkillVisit    = "visit"
	SkillParkrun  = "parkrun"
	SkillGolf     = "golf"
)
