// Package errors provides standardized error handling for marketplace operations.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Business rule errors (non-retryable).
	ErrCodeInvalidTransition    ErrorCode = "INVALID_TRANSITION"
	ErrCodeUnknownService       ErrorCode = "UNKNOWN_SERVICE"
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeSlotNotProposed      ErrorCode = "SLOT_NOT_PROPOSED"

	// Infrastructure errors (retryable).
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeTextGenerationFailed     ErrorCode = "TEXT_GENERATION_FAILED"
)

// Sentinels for errors.Is matching at call sites.
var (
	ErrInvalidTransition    = errors.New(string(ErrCodeInvalidTransition))
	ErrUnknownService       = errors.New(string(ErrCodeUnknownService))
	ErrNotFound             = errors.New(string(ErrCodeNotFound))
	ErrDuplicateApplication = errors.New(string(ErrCodeDuplicateApplication))
	ErrValidationFailed     = errors.New(string(ErrCodeValidationFailed))
	ErrSlotNotProposed      = errors.New(string(ErrCodeSlotNotProposed))
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is lets a StandardError match the sentinel for its code, so callers can
// use errors.Is regardless of which layer produced the error.
func (e *StandardError) Is(target error) bool {
	switch e.Code {
	case ErrCodeInvalidTransition:
		return target == ErrInvalidTransition
	case ErrCodeUnknownService:
		return target == ErrUnknownService
	case ErrCodeNotFound:
		return target == ErrNotFound
	case ErrCodeDuplicateApplication:
		return target == ErrDuplicateApplication
	case ErrCodeValidationFailed:
		return target == ErrValidationFailed
	case ErrCodeSlotNotProposed:
		return target == ErrSlotNotProposed
	}
	return false
}

// NewInvalidTransitionError creates a non-retryable pipeline error.
func NewInvalidTransitionError(from, to string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Application status transition not permitted",
		Details:   fmt.Sprintf("from: %s, to: %s", from, to),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownServiceError creates a non-retryable billing error.
func NewUnknownServiceError(service string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownService,
		Message:   "Service kind not present in the price table",
		Details:   fmt.Sprintf("service: %s", service),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a non-retryable lookup error.
func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateApplicationError creates a non-retryable duplicate application error.
func NewDuplicateApplicationError(jobID, candidateID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateApplication,
		Message:   "Candidate already has an active application for this job",
		Details:   fmt.Sprintf("jobId: %s, candidateId: %s", jobID, candidateID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable payload validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request payload validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSlotNotProposedError creates a non-retryable scheduling error.
func NewSlotNotProposedError(slot string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSlotNotProposed,
		Message:   "Confirmed slot must be one of the proposed slots",
		Details:   fmt.Sprintf("slot: %s", slot),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable database error.
func NewQueryExecutionFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search error.
func NewSearchQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Job search query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTextGenerationFailedError creates a retryable AI collaborator error.
func NewTextGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTextGenerationFailed,
		Message:   "Text generation API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to the response status used by the HTTP layer.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateApplication, ErrCodeInvalidTransition:
		return http.StatusConflict
	case ErrCodeUnknownService, ErrCodeValidationFailed, ErrCodeSlotNotProposed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// FromError normalizes any error into a StandardError.
func FromError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
