package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/service"
	"github.com/gavraq/location-timeline/pkg/response"
)

// TripHandler handles HTTP requests for trips
type TripHandler struct {
	service *service.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(service *service.TripService) *TripHandler {
	return &TripHandler{service: service}
}

// GetTrips handles GET /api/v1/trips
func (h *TripHandler) GetTrips(c *gin.Context) {
	trips, err := h.service.GetTrips()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get trips", err)
		return
	}
	if trips == nil {
		trips = []models.TripContext{}
	}

	response.Success(c, trips)
}

// GetTripTimeline handles GET /api/v1/trips/:id/timeline
func (h *TripHandler) GetTripTimeline(c *gin.Context) {
	var query models.TimelineQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	result, err := h.service.AnalyzeTrip(c.Request.Context(), c.Param("id"), query.Timezone, query.Persist)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to analyze trip", err)
		return
	}

	if result == nil {
		response.Error(c, http.StatusNotFound, "Trip not found", nil)
		return
	}

	response.Success(c, result)
}
