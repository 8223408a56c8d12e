package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gavraq/location-timeline/internal/config"
	"github.com/gavraq/location-timeline/internal/handler"
	"github.com/gavraq/location-timeline/internal/middleware"
	"github.com/gavraq/location-timeline/internal/params"
	"github.com/gavraq/location-timeline/internal/repository"
	"github.com/gavraq/location-timeline/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *sql.DB, base params.Params, loc *time.Location) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.RateLimit(cfg.RateLimit, time.Minute))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	repos := repository.NewRepositories(db)
	timelineService := service.NewTimelineService(repos, base, loc)
	tripService := service.NewTripService(repos, timelineService, cfg.TripWorkers)
	placeService := service.NewPlaceService(repos.Places)

	timelineHandler := handler.NewTimelineHandler(timelineService)
	tripHandler := handler.NewTripHandler(tripService)
	placeHandler := handler.NewPlaceHandler(placeService)

	// API 路由组
	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Location timeline API is running",
		})
	})

	secured := api.Group("")
	if cfg.AuthEnabled {
		secured.Use(middleware.Auth(cfg.JWTSecret))
	}
	{
		secured.GET("/timeline/:date", timelineHandler.GetDayTimeline)
		secured.POST("/analyze", timelineHandler.Analyze)
		secured.GET("/detectors", timelineHandler.ListDetectors)

		secured.GET("/trips", tripHandler.GetTrips)
		secured.GET("/trips/:id/timeline", tripHandler.GetTripTimeline)

		secured.GET("/places", placeHandler.GetPlaces)
	}

	return r
}
