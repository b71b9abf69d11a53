package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/agency-finder/internal/logger"
	"github.com/gcbaptista/agency-finder/model"
	"github.com/gcbaptista/agency-finder/services"
)

// SearchAgenciesHandler finds existing agencies matching the operator's input.
// Request Body: model.AgencyQuery
func (api *API) SearchAgenciesHandler(c *gin.Context) {
	startTime := time.Now()

	var query model.AgencyQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateAgencyQuery(&query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	result, err := api.matcher.Find(c.Request.Context(), query)
	if err != nil {
		api.log.Warnw("Agency search failed",
			logger.FieldRequestID, requestID(c),
			logger.FieldQuery, query.Term(),
			logger.FieldError, err)
		SendServiceError(c, "search", err)
		return
	}

	api.trackSearch(query, result, time.Since(startTime))
	c.JSON(http.StatusOK, result)
}

func (api *API) trackSearch(query model.AgencyQuery, result *services.MatchResult, took time.Duration) {
	event := model.SearchEvent{
		Query:        query.Term(),
		ResultCount:  result.Total,
		NoMatch:      result.NoMatch,
		ResponseTime: took,
	}
	if len(result.Matches) > 0 {
		event.TopScore = result.Matches[0].Score
	}
	api.analytics.TrackSearchEvent(event)
}
