package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the engine's error taxonomy. Stable wire values.
const (
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeAlreadyAssigned     = "ALREADY_ASSIGNED"
	CodeInvalidWorker       = "INVALID_WORKER"
	CodeNoOpForward         = "NOOP_FORWARD"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewInvalidTransition rejects an event requested from a state outside its
// legal source set. Always recoverable: the caller re-reads and re-decides.
func NewInvalidTransition(event string, current string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("event %s not allowed from status %s", event, current),
		http.StatusConflict,
		map[string]any{"event": event, "current_status": current})
}

// NewAlreadyAssigned rejects an initial assignment that includes a worker
// already linked to the complaint.
func NewAlreadyAssigned(complaintID, workerID string) error {
	return NewDomainError(CodeAlreadyAssigned,
		"worker already assigned to complaint",
		http.StatusConflict,
		map[string]any{"complaint_id": complaintID, "worker_id": workerID})
}

// NewInvalidWorker rejects a worker outside the complaint's owning team.
func NewInvalidWorker(workerID, teamID string) error {
	return NewDomainError(CodeInvalidWorker,
		"worker does not belong to the complaint's team",
		http.StatusUnprocessableEntity,
		map[string]any{"worker_id": workerID, "team_id": teamID})
}

// NewNoOpForward rejects forwarding a complaint to its current owner.
func NewNoOpForward(teamID string) error {
	return NewDomainError(CodeNoOpForward,
		"target team already owns the complaint",
		http.StatusUnprocessableEntity,
		map[string]any{"team_id": teamID})
}

// NewConcurrencyConflict signals an optimistic-lock failure; the caller
// should retry with fresh state.
func NewConcurrencyConflict(complaintID string) error {
	return NewDomainError(CodeConcurrencyConflict,
		"complaint was modified concurrently",
		http.StatusConflict,
		map[string]any{"complaint_id": complaintID})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// HasCode reports whether err carries the given domain error code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}
