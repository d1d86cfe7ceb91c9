package httperrors

import (
	"net/http"

	"fleetreserve/internal/entities"
)

// HTTPError is an error carrying the status code it should surface as.
// The request taxonomy: validation 400, not found 404, conflict 409;
// everything else is treated as an internal error upstream.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

func Validation(message string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message)
}

func NotFound(message string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message)
}

func Unauthorized(message string) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message)
}

// ConflictError rejects an overlapping reservation and carries every
// conflicting period so the client can render them without another query.
type ConflictError struct {
	Message   string
	Conflicts []entities.ConflictingPeriod
}

func (e *ConflictError) Error() string {
	return e.Message
}

func Conflict(message string, conflicts []entities.ConflictingPeriod) *ConflictError {
	return &ConflictError{
		Message:   message,
		Conflicts: conflicts,
	}
}
