package handler

import (
	"errors"

	"github.com/hearthfire/questboard/internal/model"
	"github.com/hearthfire/questboard/internal/repository"
	"github.com/hearthfire/questboard/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotQuestReferee),
		errors.Is(err, service.ErrNotSummaryAuthor):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrCharacterNotFound):
		return model.NewNotFoundError("character")
	case errors.Is(err, service.ErrQuestNotFound):
		return model.NewNotFoundError("quest")
	case errors.Is(err, service.ErrSummaryNotFound):
		return model.NewNotFoundError("summary")
	case errors.Is(err, model.ErrSignupNotFound):
		return model.NewNotFoundError("signup")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrDiscordIDLinked),
		errors.Is(err, model.ErrDuplicateSignup),
		errors.Is(err, model.ErrAlreadyLinked),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrSignupClosed),
		errors.Is(err, service.ErrQuestImmutable):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrNotAPlayer),
		errors.Is(err, service.ErrNotAReferee),
		errors.Is(err, service.ErrOwnershipMismatch),
		errors.Is(err, service.ErrCharacterRetired),
		errors.Is(err, service.ErrRosterNotSignedUp),
		errors.Is(err, model.ErrRefereeRequiresPlayer),
		errors.Is(err, model.ErrNegativeCount),
		errors.Is(err, model.ErrInvalidEntity):
		return model.NewValidationError(err.Error())

	// ===== Bad Request Errors → 400 =====
	case errors.Is(err, service.ErrCharacterNameRequired),
		errors.Is(err, service.ErrQuestNameRequired),
		errors.Is(err, service.ErrSummaryTitleRequired),
		errors.Is(err, service.ErrSummaryContentRequired),
		errors.Is(err, model.ErrInvalidIDFormat),
		errors.Is(err, model.ErrIDPrefixMismatch),
		errors.Is(err, model.ErrIDOutOfRange):
		return model.NewBadRequestError(err.Error())

	// ===== Dependency Errors → 503 =====
	case errors.Is(err, repository.ErrAllocatorUnavailable):
		return model.NewUnavailableError(err.Error())

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("an unexpected error occurred")
	}
}
