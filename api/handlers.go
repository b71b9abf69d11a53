package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/agency-finder/internal/analytics"
	"github.com/gcbaptista/agency-finder/internal/jobs"
	"github.com/gcbaptista/agency-finder/internal/logger"
	"github.com/gcbaptista/agency-finder/model"
	"github.com/gcbaptista/agency-finder/services"
)

// LocalRecords is the record-level access only backends that hold their
// records in-process provide.
type LocalRecords interface {
	Get(id string) (model.Agency, error)
	Import(ctx context.Context, agencies []model.Agency, progress func(done, total int)) error
}

// API holds dependencies for API handlers.
type API struct {
	matcher   services.Matcher
	analytics *analytics.Service
	records   LocalRecords  // nil when the backend is remote
	jobs      *jobs.Manager // nil disables bulk imports
	log       *zap.SugaredLogger
}

// NewAPI creates a new API handler structure. records and jobManager may be nil.
func NewAPI(matcher services.Matcher, tracker *analytics.Service, records LocalRecords, jobManager *jobs.Manager) *API {
	if tracker == nil {
		tracker = analytics.NewService()
	}
	return &API{
		matcher:   matcher,
		analytics: tracker,
		records:   records,
		jobs:      jobManager,
		log:       logger.Named("api"),
	}
}

// SetupRoutes defines all the API routes for the agency finder.
func SetupRoutes(router *gin.Engine, apiHandler *API) {
	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Analytics route
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	agencyRoutes := router.Group("/agencies")
	{
		agencyRoutes.POST("/_search", apiHandler.SearchAgenciesHandler) // Find existing agencies
		agencyRoutes.POST("", apiHandler.CreateAgencyHandler)           // Create a new agency
		agencyRoutes.PUT("", apiHandler.ImportAgenciesHandler)          // Bulk import records in the background
		agencyRoutes.GET("/:agencyId", apiHandler.GetAgencyHandler)     // Get a specific agency
	}

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)               // List jobs
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)          // Get job status by ID
		jobRoutes.GET("/_metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "agency-finder",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// GetAnalyticsHandler returns the search analytics summary
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.analytics.Summary())
}
