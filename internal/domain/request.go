package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Request validation errors
var (
	// ErrPromptEmpty is returned when a generation request has no prompt text.
	ErrPromptEmpty = errors.New("prompt text cannot be empty")

	// ErrUnknownRequestKind is returned for a request kind outside the enum.
	ErrUnknownRequestKind = errors.New("unknown generation request kind")
)

// RequestKind identifies which generation path a request belongs to.
// The kind participates in cache-key derivation and selects the TTL and
// failure policy applied by the orchestration layer.
type RequestKind string

const (
	// KindCards generates a batch of quiz flashcards for a topic.
	KindCards RequestKind = "cards"

	// KindHint generates a progressive hint (level 1-3) for a card.
	KindHint RequestKind = "hint"

	// KindExplanation explains why a card's correct answer is right.
	KindExplanation RequestKind = "explanation"

	// KindImprovement rewrites a card for clarity, difficulty, or accuracy.
	KindImprovement RequestKind = "improvement"
)

// Valid reports whether the kind is one of the known request kinds.
func (k RequestKind) Valid() bool {
	switch k {
	case KindCards, KindHint, KindExplanation, KindImprovement:
		return true
	}
	return false
}

// RequestOptions carries the typed per-request generation settings.
// TTL is cache storage policy, not request semantics, and is therefore
// excluded from fingerprinting.
type RequestOptions struct {
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	StructuredOutput bool          `json:"structured_output"`
	SystemPrompt     string        `json:"system_prompt,omitempty"`
	TTL              time.Duration `json:"-"`
}

// Default TTLs by request kind. Cards and hints are highly reusable across
// users, so they keep long TTLs; explanations reference a specific wrong
// answer and age faster; improvements are close to one-shot.
const (
	CardsCacheTTL       = 30 * 24 * time.Hour
	HintCacheTTL        = 30 * 24 * time.Hour
	ExplanationCacheTTL = 7 * 24 * time.Hour
	ImprovementCacheTTL = time.Hour
)

// DefaultOptionsForKind returns the documented default options for a request
// kind. The cards kind scales its token budget with the requested count via
// CardsOptions; this function returns its base defaults.
func DefaultOptionsForKind(kind RequestKind) RequestOptions {
	switch kind {
	case KindCards:
		return RequestOptions{
			MaxTokens:   1000,
			Temperature: 0.7,
			TTL:         CardsCacheTTL,
		}
	case KindHint:
		return RequestOptions{
			MaxTokens:   50,
			Temperature: 0.6,
			TTL:         HintCacheTTL,
		}
	case KindExplanation:
		return RequestOptions{
			MaxTokens:   100,
			Temperature: 0.5,
			TTL:         ExplanationCacheTTL,
		}
	case KindImprovement:
		return RequestOptions{
			MaxTokens:        300,
			Temperature:      0.7,
			StructuredOutput: true,
			TTL:              ImprovementCacheTTL,
		}
	default:
		return RequestOptions{
			MaxTokens:   200,
			Temperature: 0.7,
			TTL:         ExplanationCacheTTL,
		}
	}
}

// CardsOptions returns the options for a cards request of the given count:
// 100 tokens per requested card, capped at 1000.
func CardsOptions(count int) RequestOptions {
	opts := DefaultOptionsForKind(KindCards)
	budget := count * 100
	if budget > 1000 {
		budget = 1000
	}
	opts.MaxTokens = budget
	return opts
}

// GenerationRequest is the transient input to one orchestration call.
// It is never persisted; its normalized form is the input to fingerprinting.
type GenerationRequest struct {
	Kind       RequestKind
	PromptText string
	Options    RequestOptions
	UserID     uuid.UUID

	// CardCount is the number of cards requested; meaningful only for the
	// cards kind. It sizes result truncation and the fallback set. The
	// count is already part of the prompt text, so it does not participate
	// in fingerprinting separately.
	CardCount int
}

// Validate checks the request's structural invariants.
func (r GenerationRequest) Validate() error {
	if !r.Kind.Valid() {
		return ErrUnknownRequestKind
	}
	if r.PromptText == "" {
		return ErrPromptEmpty
	}
	return nil
}
