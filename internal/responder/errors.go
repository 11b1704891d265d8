package responder

import "errors"

// Errors surfaced to callers of the responder.
var (
	// ErrQuotaExceeded is returned in enforcing mode when a request's
	// estimated cost would push the user past their daily limit. In
	// advisory mode (the default) the condition is recorded but generation
	// proceeds.
	ErrQuotaExceeded = errors.New("daily token limit exceeded")

	// ErrGenerationFailed is returned when a generation could not produce
	// a usable result and no fallback exists for the request kind.
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when provider output cannot be parsed
	// even after the repair procedure.
	ErrInvalidResponse = errors.New("invalid response from language model")
)
