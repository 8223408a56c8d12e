package repository

import "database/sql"

// Repositories bundles every repository over one database
type Repositories struct {
	Points      *LocationPointRepository
	Places      *PlaceRepository
	Definitions *DefinitionRepository
	Trips       *TripRepository
	Thresholds  *ThresholdRepository
	Runs        *RunRepository
}

// NewRepositories creates all repositories over db
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Points:      NewLocationPointRepository(db),
		Places:      NewPlaceRepository(db),
		Definitions: NewDefinitionRepository(db),
		Trips:       NewTripRepository(db),
		Thresholds:  NewThresholdRepository(db),
		Runs:        NewRunRepository(db),
	}
}
