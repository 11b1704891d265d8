package generation

import (
	"context"

	"github.com/cardwise/cardwise-api/internal/domain"
)

// Result is the normalized outcome of one provider call.
type Result struct {
	// Text is the raw generated text. Structured kinds parse it downstream.
	Text string

	// TokenCount is the total tokens consumed, as reported by the provider.
	// Zero means the provider did not report usage; callers fall back to
	// their own estimate.
	TokenCount int
}

// Generator is the sole boundary to the external LLM capability.
// Implementations map provider-specific failures into this package's error
// taxonomy (see errors.go) so callers can distinguish transient from
// permanent failures without knowing the provider.
type Generator interface {
	// Generate submits a prompt with the given options and returns the
	// generated text and token count. The call is bounded by the
	// implementation's configured timeout; a timeout is reported as a
	// transient error.
	Generate(ctx context.Context, prompt string, opts domain.RequestOptions) (*Result, error)
}
