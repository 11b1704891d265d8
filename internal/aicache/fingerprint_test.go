package aicache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cardwise/cardwise-api/internal/domain"
)

func TestFingerprint_Deterministic(t *testing.T) {
	t.Parallel()

	opts := domain.RequestOptions{
		MaxTokens:   100,
		Temperature: 0.7,
	}

	a := Fingerprint("Explain photosynthesis", domain.KindExplanation, opts)
	b := Fingerprint("Explain photosynthesis", domain.KindExplanation, opts)
	assert.Equal(t, a, b)
}

func TestFingerprint_VariesWithInputs(t *testing.T) {
	t.Parallel()

	base := domain.RequestOptions{MaxTokens: 100, Temperature: 0.7}
	key := Fingerprint("prompt", domain.KindHint, base)

	assert.NotEqual(t, key, Fingerprint("other prompt", domain.KindHint, base))
	assert.NotEqual(t, key, Fingerprint("prompt", domain.KindExplanation, base))

	changed := base
	changed.MaxTokens = 50
	assert.NotEqual(t, key, Fingerprint("prompt", domain.KindHint, changed))

	changed = base
	changed.Temperature = 0.5
	assert.NotEqual(t, key, Fingerprint("prompt", domain.KindHint, changed))
}

func TestFingerprint_IgnoresVolatileFields(t *testing.T) {
	t.Parallel()

	// TTL is storage policy, not request semantics: it must not change the key.
	a := Fingerprint("prompt", domain.KindCards, domain.RequestOptions{
		MaxTokens: 500, Temperature: 0.7, TTL: time.Hour,
	})
	b := Fingerprint("prompt", domain.KindCards, domain.RequestOptions{
		MaxTokens: 500, Temperature: 0.7, TTL: 30 * 24 * time.Hour,
	})
	assert.Equal(t, a, b)
}

func TestFingerprint_KeyShape(t *testing.T) {
	t.Parallel()

	key := Fingerprint("prompt", domain.KindCards, domain.RequestOptions{})
	// "<kind>:" prefix followed by a 64-character sha256 hex digest.
	assert.Regexp(t, `^cards:[0-9a-f]{64}$`, key)
}

func TestPromptHash_Stable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PromptHash("abc"), PromptHash("abc"))
	assert.NotEqual(t, PromptHash("abc"), PromptHash("abd"))
	assert.Len(t, PromptHash("abc"), 32)
}
