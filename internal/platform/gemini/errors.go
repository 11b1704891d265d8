package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/cardwise/cardwise-api/internal/generation"
)

// classifyError maps a Gemini API error into the generation package's
// error taxonomy. Unknown errors are treated as transient: the provider
// boundary errs on the side of retryability, and the orchestration layer
// bounds the retries.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	// A timed-out or cancelled call is transient by definition.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", generation.ErrUnavailable, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", generation.ErrRateLimited, err)
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %v", generation.ErrAuth, err)
		case apiErr.Code == http.StatusBadRequest || apiErr.Code == http.StatusNotFound:
			return fmt.Errorf("%w: %v", generation.ErrInvalidRequest, err)
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: %v", generation.ErrUnavailable, err)
		}
	}

	return fmt.Errorf("%w: %v", generation.ErrUnavailable, err)
}
