package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/agency-finder/internal/errors"
	"github.com/gcbaptista/agency-finder/internal/logger"
	"github.com/gcbaptista/agency-finder/model"
)

// CreateAgencyHandler creates a new agency after a search came up empty.
// Request Body: model.AgencyDraft
func (api *API) CreateAgencyHandler(c *gin.Context) {
	var draft model.AgencyDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateAgencyDraft(&draft); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	created, err := api.matcher.Create(c.Request.Context(), draft)
	if err != nil {
		api.log.Warnw("Agency creation failed",
			logger.FieldRequestID, requestID(c),
			logger.FieldError, err)
		SendServiceError(c, "create agency", err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetAgencyHandler returns a single agency by ID.
func (api *API) GetAgencyHandler(c *gin.Context) {
	agencyID := c.Param("agencyId")

	if result := ValidateAgencyID(agencyID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if api.records == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeNotSupported,
			"The configured backend does not support lookups by ID")
		return
	}

	agency, err := api.records.Get(agencyID)
	if err != nil {
		if errors.Is(err, errors.ErrAgencyNotFound) {
			SendAgencyNotFoundError(c, agencyID)
			return
		}
		SendInternalError(c, "get agency", err)
		return
	}

	c.JSON(http.StatusOK, agency)
}
