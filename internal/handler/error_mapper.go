package handler

import (
	"errors"

	"github.com/tastien/teamup/internal/app"
	"github.com/tastien/teamup/internal/document"
	"github.com/tastien/teamup/internal/model"
	"github.com/tastien/teamup/internal/service"
)

// MapError converts a service, document, or facade error to a
// ProblemDetails response. This centralizes error handling logic for all
// handlers, ensuring consistent HTTP status codes across the API.
func MapError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrActivityRequired),
		errors.Is(err, service.ErrDifficultyRequired),
		errors.Is(err, service.ErrUnknownDifficulty),
		errors.Is(err, service.ErrInvalidMaxMembers),
		errors.Is(err, service.ErrTooManyMembers),
		errors.Is(err, service.ErrInvalidMode),
		errors.Is(err, service.ErrGameIDRequired),
		errors.Is(err, service.ErrInvalidProfession),
		errors.Is(err, service.ErrInvalidCombatPower):
		return model.NewValidationError(err.Error())

	// ===== Missing Session → 400 =====
	case errors.Is(err, app.ErrNoUser),
		errors.Is(err, service.ErrUserRequired):
		return model.NewBadRequestError(err.Error())

	// ===== Authorization → 403 =====
	case errors.Is(err, service.ErrNotLeader):
		return model.NewForbiddenError(err.Error())
	case errors.Is(err, document.ErrReadOnly):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found → 404 =====
	case errors.Is(err, service.ErrRoomNotFound):
		return model.NewNotFoundError("room")
	case errors.Is(err, service.ErrNotMember):
		return model.NewNotFoundError("membership")
	case errors.Is(err, document.ErrNotFound):
		return model.NewNotFoundError("room document")

	// ===== Conflicts → 409 =====
	case errors.Is(err, service.ErrRoomFull):
		return model.NewRoomFullError()
	case errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrRoomNotJoinable):
		return model.NewConflictError(err.Error())
	case errors.Is(err, document.ErrConflict):
		return model.NewConflictError("the room list changed while saving, please retry")

	// ===== Document Store → 502/504 =====
	case errors.Is(err, document.ErrTimeout):
		return model.NewTimeoutError()
	case errors.Is(err, document.ErrFetch),
		errors.Is(err, document.ErrParse):
		return model.NewDocumentError(err.Error())

	default:
		return model.NewInternalError("an unexpected error occurred")
	}
}
