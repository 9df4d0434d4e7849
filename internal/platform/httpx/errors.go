package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/balcao/balcao/internal/shared"
)

// RespondError maps domain errors to HTTP responses. When exposeInternal is
// false the cause of unexpected errors is not sent to the client.
func RespondError(w http.ResponseWriter, err error, exposeInternal bool) {
	var domainErr *shared.Error
	if errors.As(err, &domainErr) {
		Problem(w, statusFor(domainErr.Kind), domainErr.Code, domainErr.Error(), domainErr.Details)
		return
	}
	switch {
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, shared.CodeValidation, err.Error(), nil)
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, shared.CodeNotFound, shared.UserSafeMessage(err), nil)
	case errors.Is(err, shared.ErrConflict):
		Problem(w, http.StatusConflict, shared.CodeConflict, shared.UserSafeMessage(err), nil)
	case errors.Is(err, shared.ErrInsufficientStock):
		Problem(w, http.StatusBadRequest, shared.CodeInsufficientStock, err.Error(), nil)
	case errors.Is(err, shared.ErrUnauthorized), errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, shared.CodeUnauthorized, shared.UserSafeMessage(err), nil)
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, shared.CodeForbidden, shared.UserSafeMessage(err), nil)
	default:
		var details map[string]string
		if exposeInternal && err != nil {
			details = map[string]string{"cause": err.Error()}
		}
		Problem(w, http.StatusInternalServerError, shared.CodeInternal, "erro interno do servidor", details)
	}
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, shared.ErrValidation), errors.Is(kind, shared.ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(kind, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(kind, shared.ErrUnauthorized), errors.Is(kind, shared.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(kind, shared.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ErrorWriter writes error envelopes and logs failures that map to 500.
type ErrorWriter struct {
	Logger         *slog.Logger
	ExposeInternal bool
}

// Write responds with err. msg describes the failed operation in logs.
func (e ErrorWriter) Write(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if e.Logger != nil && isUnexpected(err) {
		e.Logger.ErrorContext(r.Context(), msg, slog.Any("error", err), slog.String("path", r.URL.Path))
	}
	RespondError(w, err, e.ExposeInternal)
}

func isUnexpected(err error) bool {
	var domainErr *shared.Error
	if errors.As(err, &domainErr) {
		return statusFor(domainErr.Kind) == http.StatusInternalServerError
	}
	for _, kind := range []error{shared.ErrValidation, shared.ErrNotFound, shared.ErrConflict, shared.ErrInsufficientStock, shared.ErrUnauthorized, shared.ErrInvalidCredentials, shared.ErrForbidden} {
		if errors.Is(err, kind) {
			return false
		}
	}
	return true
}
