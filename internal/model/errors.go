package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCode represents API error codes
type ErrorCode int

const (
	// Authorization errors (2xxx)
	ErrCodeForbidden ErrorCode = 2001

	// Resource errors (3xxx)
	ErrCodeNotFound ErrorCode = 3001
	ErrCodeConflict ErrorCode = 3003
	ErrCodeRoomFull ErrorCode = 3004

	// Validation errors (4xxx)
	ErrCodeValidation   ErrorCode = 4001
	ErrCodeInvalidInput ErrorCode = 4002

	// Upstream/document errors (5xxx)
	ErrCodeInternal ErrorCode = 5001
	ErrCodeDocument ErrorCode = 5002
	ErrCodeTimeout  ErrorCode = 5003
)

// ProblemDetails represents RFC 9457 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Extension fields
	Code ErrorCode `json:"code,omitempty"`
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON writes the problem details as JSON response
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// Common error constructors

func NewBadRequestError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://teamup.tastien.app/errors/bad-request",
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
		Detail: detail,
		Code:   ErrCodeInvalidInput,
	}
}

func NewValidationError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://teamup.tastien.app/errors/validation",
		Title:  "Validation Failed",
		Status: http.StatusUnprocessableEntity,
		Detail: detail,
		Code:   ErrCodeValidation,
	}
}

func NewForbiddenError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://teamup.tastien.app/errors/forbidden",
		Title:  "Forbidden",
		Status: http.StatusForbidden,
		Detail: detail,
		Code:   ErrCodeForbidden,
	}
}

func NewNotFoundError(resource string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://teamup.tastien.app/errors/not-found",
		Title:  "Not Found",
		Status: http.StatusNotFound,
		Detail: fmt.Sprintf("%s not found", resource),
		Code:   ErrCodeNotFound,
	}
}

func NewConflictError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://teamup.tastien.app/errors/conflict",
		Title:  "Conflict",
		Status: http.StatusConflict,
		Detail: detail,
		Code:   ErrCodeConflict,
	}
}

func NewRoomFullError() *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://teamup.tastien.app/errors/room-full",
		Title:  "Room Full",
		Status: http.StatusConflict,
		Detail: "room has no open slots",
		Code:   ErrCodeRoomFull,
	}
}

func NewDocumentError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://teamup.tastien.app/errors/document",
		Title:  "Document Store Unavailable",
		Status: http.StatusBadGateway,
		Detail: detail,
		Code:   ErrCodeDocument,
	}
}

func NewTimeoutError() *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://teamup.tastien.app/errors/timeout",
		Title:  "Upstream Timeout",
		Status: http.StatusGatewayTimeout,
		Detail: "the document store did not respond in time",
		Code:   ErrCodeTimeout,
	}
}

func NewInternalError(detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   "https://teamup.tastien.app/errors/internal",
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Detail: detail,
		Code:   ErrCodeInternal,
	}
}
