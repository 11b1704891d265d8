package generation

import "errors"

// Provider error taxonomy. The orchestration layer treats rate limiting and
// unavailability (including timeouts) as transient; invalid requests and
// authentication failures are permanent and never retried.
var (
	// ErrRateLimited is returned when the provider rejects the call due to
	// rate limiting.
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrUnavailable is returned when the provider is temporarily
	// unreachable, overloaded, or the call timed out.
	ErrUnavailable = errors.New("provider temporarily unavailable")

	// ErrInvalidRequest is returned when the provider rejects the request
	// as malformed. Retrying the same request cannot succeed.
	ErrInvalidRequest = errors.New("provider rejected request as invalid")

	// ErrAuth is returned for credential failures. Never retried.
	ErrAuth = errors.New("provider authentication failed")

	// ErrInvalidConfig is returned when a generator is constructed with
	// invalid configuration.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// IsTransient reports whether the error is worth retrying: rate limits and
// unavailability may resolve on their own, everything else is permanent.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
}
