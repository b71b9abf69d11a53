package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/agency-finder/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeAgencyNotFound   ErrorCode = "AGENCY_NOT_FOUND"
	ErrorCodeJobNotFound      ErrorCode = "JOB_NOT_FOUND"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeNotSupported     ErrorCode = "NOT_SUPPORTED"

	// Server Error Codes (5xx)
	ErrorCodeInternalError   ErrorCode = "INTERNAL_ERROR"
	ErrorCodeRetrievalFailed ErrorCode = "RETRIEVAL_FAILED"
	ErrorCodeBackendFailed   ErrorCode = "BACKEND_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)
	errorResponse.RequestID = requestID(c)
	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with one detail per failed field
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendAgencyNotFoundError sends a standardized agency not found error
func SendAgencyNotFoundError(c *gin.Context, agencyID string) {
	SendError(c, http.StatusNotFound, ErrorCodeAgencyNotFound,
		"Agency '"+agencyID+"' not found")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendRetrievalError sends a standardized error for a failed backend lookup
func SendRetrievalError(c *gin.Context, err error) {
	SendError(c, http.StatusBadGateway, ErrorCodeRetrievalFailed,
		"Could not retrieve candidate agencies: "+err.Error())
}

// SendServiceError maps an error returned by the matcher or a backend to a response
func SendServiceError(c *gin.Context, operation string, err error) {
	var validationErr *errors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		result := &ValidationResult{Valid: true}
		result.AddError(validationErr.Field, validationErr.Message)
		SendStructuredValidationError(c, result)
	case errors.Is(err, errors.ErrAgencyNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeAgencyNotFound, err.Error())
	case errors.Is(err, errors.ErrRetrievalFailed):
		SendRetrievalError(c, err)
	case errors.Is(err, errors.ErrBackendUnavailable):
		SendError(c, http.StatusBadGateway, ErrorCodeBackendFailed,
			"Search backend failed during "+operation+": "+err.Error())
	default:
		SendInternalError(c, operation, err)
	}
}
