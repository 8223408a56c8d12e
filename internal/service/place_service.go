package service

import (
	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/repository"
)

// PlaceService handles business logic for known locations
type PlaceService struct {
	repo *repository.PlaceRepository
}

// NewPlaceService creates a new place service
func NewPlaceService(repo *repository.PlaceRepository) *PlaceService {
	return &PlaceService{repo: repo}
}

// GetPlaces retrieves the global registry or a trip overlay
func (s *PlaceService) GetPlaces(filter models.PlaceFilter) ([]models.KnownLocation, error) {
	return s.repo.GetLocations(filter)
}
