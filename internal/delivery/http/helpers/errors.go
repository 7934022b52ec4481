package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"socialhub/internal/domain"
)

// WriteServiceError maps an error returned by a service to a status code and
// error envelope. Unknown errors are logged and reported as 500 without
// leaking their text.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var participantErrs *domain.ParticipantErrors
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &participantErrs):
		WriteJSONErrorDetails(w, http.StatusBadRequest, ErrCodeBadRequest, participantErrs.Error(), participantErrs.Items)
	case errors.As(err, &validationErr):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeValidationError, validationErr.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrAlreadyLiked):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
