package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/service"
	"github.com/gavraq/location-timeline/pkg/response"
)

// PlaceHandler handles HTTP requests for known locations
type PlaceHandler struct {
	service *service.PlaceService
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(service *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{service: service}
}

// GetPlaces handles GET /api/v1/places
func (h *PlaceHandler) GetPlaces(c *gin.Context) {
	var filter models.PlaceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	places, err := h.service.GetPlaces(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get places", err)
		return
	}
	if places == nil {
		places = []models.KnownLocation{}
	}

	response.Success(c, places)
}
