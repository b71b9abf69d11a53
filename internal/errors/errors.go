// Package errors provides error handling for the agency finder.
//
// It re-exports github.com/cockroachdb/errors for creation, wrapping and
// inspection, and defines the sentinel and typed errors shared by the API
// layer and the search backends.
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation, wrapping and inspection
var (
	New      = crdb.New
	Newf     = crdb.Newf
	Wrap     = crdb.Wrap
	Wrapf    = crdb.Wrapf
	WithHint = crdb.WithHint
	Is       = crdb.Is
	As       = crdb.As
	Join     = crdb.Join
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = New("invalid input")

	// ErrAgencyNotFound is returned when a record lookup finds nothing
	ErrAgencyNotFound = New("agency not found")

	// ErrRetrievalFailed is returned when the search backend could not supply candidates
	ErrRetrievalFailed = New("candidate retrieval failed")

	// ErrBackendUnavailable is returned when the search backend rejects or cannot serve a call
	ErrBackendUnavailable = New("search backend unavailable")

	// ErrJobNotFound is returned when a background job ID is unknown
	ErrJobNotFound = New("job not found")
)

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AgencyNotFoundError represents a missing record with context
type AgencyNotFoundError struct {
	AgencyID string
}

func (e *AgencyNotFoundError) Error() string {
	return fmt.Sprintf("agency with ID '%s' not found", e.AgencyID)
}

func (e *AgencyNotFoundError) Is(target error) bool {
	return target == ErrAgencyNotFound
}

// NewAgencyNotFoundError creates a new AgencyNotFoundError
func NewAgencyNotFoundError(agencyID string) *AgencyNotFoundError {
	return &AgencyNotFoundError{AgencyID: agencyID}
}

// JobNotFoundError represents an unknown background job
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// RetrievalError wraps a backend failure that happened while fetching candidates
type RetrievalError struct {
	Backend string
	Cause   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval from '%s' backend failed: %v", e.Backend, e.Cause)
}

func (e *RetrievalError) Is(target error) bool {
	return target == ErrRetrievalFailed
}

func (e *RetrievalError) Unwrap() error {
	return e.Cause
}

// NewRetrievalError creates a new RetrievalError
func NewRetrievalError(backend string, cause error) *RetrievalError {
	return &RetrievalError{Backend: backend, Cause: cause}
}

// BackendError represents a non-success response from a remote search backend
type BackendError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend %s returned status %d: %s", e.Operation, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("backend %s returned status %d", e.Operation, e.StatusCode)
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

// NewBackendError creates a new BackendError
func NewBackendError(operation string, statusCode int, body string) *BackendError {
	return &BackendError{Operation: operation, StatusCode: statusCode, Body: body}
}
