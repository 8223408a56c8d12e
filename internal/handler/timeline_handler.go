package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/service"
	"github.com/gavraq/location-timeline/pkg/response"
)

// TimelineHandler handles HTTP requests for day timelines and ad-hoc analysis
type TimelineHandler struct {
	service *service.TimelineService
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(service *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{service: service}
}

// GetDayTimeline handles GET /api/v1/timeline/:date
func (h *TimelineHandler) GetDayTimeline(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return
	}

	var query models.TimelineQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}
	if _, err := h.service.Location(query.Timezone); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid timezone", err)
		return
	}

	result, err := h.service.AnalyzeDay(date, query.Timezone, query.Persist)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to build timeline", err)
		return
	}

	response.Success(c, result)
}

// Analyze handles POST /api/v1/analyze
func (h *TimelineHandler) Analyze(c *gin.Context) {
	var req service.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.Analyze(req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to analyze day", err)
		return
	}

	response.Success(c, result)
}

// ListDetectors handles GET /api/v1/detectors
func (h *TimelineHandler) ListDetectors(c *gin.Context) {
	detectors, err := h.service.Detectors()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list detectors", err)
		return
	}

	response.Success(c, detectors)
}
