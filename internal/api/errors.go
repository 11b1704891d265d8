package api

import (
	"errors"
	"net/http"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/generation"
	"github.com/cardwise/cardwise-api/internal/responder"
	"github.com/cardwise/cardwise-api/internal/store"
)

// errorTypeTokenLimit is the client-facing discriminator for quota
// rejections, matched by the frontend to show the usage screen.
const errorTypeTokenLimit = "TOKEN_LIMIT_EXCEEDED"

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, responder.ErrQuotaExceeded):
		return http.StatusTooManyRequests

	case errors.Is(err, domain.ErrPromptEmpty),
		errors.Is(err, domain.ErrUnknownRequestKind),
		errors.Is(err, responder.ErrUnknownImprovementType),
		errors.Is(err, generation.ErrInvalidRequest):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, generation.ErrAuth),
		errors.Is(err, generation.ErrRateLimited),
		errors.Is(err, generation.ErrUnavailable):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, responder.ErrQuotaExceeded):
		return "Daily token limit exceeded"

	case errors.Is(err, domain.ErrPromptEmpty),
		errors.Is(err, domain.ErrUnknownRequestKind),
		errors.Is(err, responder.ErrUnknownImprovementType),
		errors.Is(err, generation.ErrInvalidRequest):
		return "Invalid request"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, generation.ErrAuth),
		errors.Is(err, generation.ErrRateLimited),
		errors.Is(err, generation.ErrUnavailable):
		return "AI service temporarily unavailable"

	case errors.Is(err, responder.ErrInvalidResponse):
		return "AI service returned an unusable response"

	default:
		return "An unexpected error occurred"
	}
}

// errorType returns the client-facing error type discriminator for err,
// or "" when none applies.
func errorType(err error) string {
	if errors.Is(err, responder.ErrQuotaExceeded) {
		return errorTypeTokenLimit
	}
	return ""
}
