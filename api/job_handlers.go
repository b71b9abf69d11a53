package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/agency-finder/internal/errors"
	"github.com/gcbaptista/agency-finder/model"
)

// ImportAgenciesHandler starts a background import of records carrying their own IDs.
// Request Body: []model.Agency
func (api *API) ImportAgenciesHandler(c *gin.Context) {
	if api.records == nil || api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported,
			"The configured backend does not support bulk imports")
		return
	}

	var agencies []model.Agency
	if err := c.ShouldBindJSON(&agencies); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateAgencies(agencies); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobID := api.jobs.CreateJob(model.JobTypeImportAgencies, map[string]string{
		"records": strconv.Itoa(len(agencies)),
	})
	err := api.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return api.records.Import(ctx, agencies, func(done, total int) {
			api.jobs.UpdateJobProgress(jobID, done, total, "Importing agencies")
		})
	})
	if err != nil {
		SendInternalError(c, "start import", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Import of " + strconv.Itoa(len(agencies)) + " agencies started",
		"job_id":  jobID,
	})
}

// GetJobHandler returns the status of a background job
func (api *API) GetJobHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported, "Background jobs are not enabled")
		return
	}

	jobID := c.Param("jobId")
	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		if errors.Is(err, errors.ErrJobNotFound) {
			SendError(c, http.StatusNotFound, ErrorCodeJobNotFound, "Job '"+jobID+"' not found")
			return
		}
		SendInternalError(c, "get job", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists background jobs, optionally filtered with ?status=
func (api *API) ListJobsHandler(c *gin.Context) {
	if api.jobs == nil {
		c.JSON(http.StatusOK, gin.H{"jobs": []*model.Job{}, "total": 0})
		return
	}

	var status *model.JobStatus
	if raw := c.Query("status"); raw != "" {
		s := model.JobStatus(raw)
		status = &s
	}

	jobList := api.jobs.ListJobs(status)
	c.JSON(http.StatusOK, gin.H{"jobs": jobList, "total": len(jobList)})
}

// GetJobMetricsHandler returns job counters
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported, "Background jobs are not enabled")
		return
	}
	c.JSON(http.StatusOK, api.jobs.GetMetrics())
}
