// Package api provides the HTTP surface of the agency finder.
package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/agency-finder/model"
)

// maxResultsCap bounds the optional top-K a caller may ask for.
const maxResultsCap = 100

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateAgencyQuery validates a search request
func ValidateAgencyQuery(query *model.AgencyQuery) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if query == nil {
		result.AddError("request_body", "Search query is required")
		return result
	}

	if strings.TrimSpace(query.BusinessName) == "" {
		result.AddError("business_name", "Business name is required")
	}

	if query.MaxResults < 0 {
		result.AddError("max_results", "Max results cannot be negative")
	} else if query.MaxResults > maxResultsCap {
		result.AddError("max_results", "Max results cannot exceed 100")
	}

	return result
}

// ValidateAgencyDraft validates a create request
func ValidateAgencyDraft(draft *model.AgencyDraft) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if draft == nil {
		result.AddError("request_body", "Agency is required")
		return result
	}

	if strings.TrimSpace(draft.Name) == "" {
		result.AddError("name", "Agency name is required")
	}

	if draft.Email != nil && *draft.Email != "" && !strings.Contains(*draft.Email, "@") {
		result.AddError("email", "Email must contain '@'")
	}

	return result
}

// ValidateAgencies validates records submitted for bulk import
func ValidateAgencies(agencies []model.Agency) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(agencies) == 0 {
		result.AddError("agencies", "No agencies provided")
		return result
	}

	seen := make(map[string]struct{}, len(agencies))
	for i, agency := range agencies {
		if strings.TrimSpace(agency.ID) == "" {
			result.AddError(fmt.Sprintf("agencies[%d].id", i), "Agency must have a non-empty 'id'")
			continue
		}
		if _, dup := seen[agency.ID]; dup {
			result.AddError(fmt.Sprintf("agencies[%d].id", i), "Duplicate agency ID '"+agency.ID+"'")
		}
		seen[agency.ID] = struct{}{}
		if strings.TrimSpace(agency.Name) == "" {
			result.AddError(fmt.Sprintf("agencies[%d].name", i), "Agency must have a non-empty 'name'")
		}
	}

	return result
}

// ValidateAgencyID validates an agency ID path parameter
func ValidateAgencyID(agencyID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if agencyID == "" {
		result.AddError("agencyId", "Agency ID is required")
		return result
	}

	if strings.TrimSpace(agencyID) != agencyID {
		result.AddError("agencyId", "Agency ID cannot have leading or trailing whitespace")
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
