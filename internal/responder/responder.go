package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardwise/cardwise-api/internal/aicache"
	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/generation"
	"github.com/cardwise/cardwise-api/internal/quota"
)

// Config holds the orchestration parameters.
type Config struct {
	// MaxTokensPerRequest caps the per-request token estimate.
	MaxTokensPerRequest int

	// EnforceQuota selects hard enforcement over the default advisory
	// behavior for daily limits.
	EnforceQuota bool

	// CardAttempts is the total number of generation attempts for the
	// cards kind before falling back to the built-in pool.
	CardAttempts int

	// RetryBackoff is the delay between card generation attempts.
	RetryBackoff time.Duration
}

// DefaultConfig returns the standard orchestration parameters.
func DefaultConfig() Config {
	return Config{
		MaxTokensPerRequest: 1000,
		EnforceQuota:        false,
		CardAttempts:        3,
		RetryBackoff:        time.Second,
	}
}

// Outcome is the normalized result of one orchestration call.
type Outcome struct {
	// Content is the generated (or cached) text payload. For the cards
	// kind it is the canonical JSON array of the validated cards.
	Content string

	// TokensConsumed is what this call cost; zero for cache hits' callers
	// is reported as the original generation cost, and zero for fallback
	// content.
	TokensConsumed int

	// FromCache reports whether the payload was served from the cache.
	FromCache bool

	// Cards holds the parsed cards for the cards kind.
	Cards []domain.GeneratedCard

	// Headroom records the pre-generation quota check outcome. Nil for
	// cache hits, which never consult the ledger.
	Headroom *quota.Headroom
}

// Responder coordinates cache, quota ledger, and generation provider for
// one semantic request at a time. Many Obtain calls may run concurrently;
// the underlying stores provide the required atomicity.
type Responder struct {
	cache     *aicache.ResponseCache
	ledger    *quota.Ledger
	generator generation.Generator
	config    Config
	logger    *slog.Logger

	// sleep is the injected backoff delay, replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Responder. All dependencies are required except the logger,
// which defaults to slog.Default().
func New(
	cache *aicache.ResponseCache,
	ledger *quota.Ledger,
	generator generation.Generator,
	config Config,
	logger *slog.Logger,
) *Responder {
	if cache == nil {
		panic("cache cannot be nil")
	}
	if ledger == nil {
		panic("ledger cannot be nil")
	}
	if generator == nil {
		panic("generator cannot be nil")
	}
	if config.CardAttempts <= 0 {
		config.CardAttempts = 3
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = time.Second
	}
	if config.MaxTokensPerRequest <= 0 {
		config.MaxTokensPerRequest = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{
		cache:     cache,
		ledger:    ledger,
		generator: generator,
		config:    config,
		logger:    logger.With(slog.String("component", "responder")),
		sleep:     sleepWithContext,
	}
}

// sleepWithContext waits for d or until ctx is done.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Obtain resolves a generation request: cache first, then quota check, then
// a live provider call with kind-specific repair, retry, and fallback
// behavior, then write-through to cache and ledger.
//
// Cache hits are free: they return immediately and never touch the quota
// ledger.
func (r *Responder) Obtain(ctx context.Context, req domain.GenerationRequest) (*Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	opts := req.Options
	key := aicache.Fingerprint(req.PromptText, req.Kind, opts)

	if payload, ok := r.cache.Get(ctx, key); ok {
		r.logger.DebugContext(ctx, "cache hit",
			"kind", string(req.Kind),
			"cache_key", key)
		outcome := &Outcome{
			Content:        payload.Content,
			TokensConsumed: payload.TokensConsumed,
			FromCache:      true,
		}
		if req.Kind == domain.KindCards {
			if cards, err := parseCards(payload.Content); err == nil {
				outcome.Cards = cards
			}
		}
		return outcome, nil
	}

	estimated := r.estimateTokens(req.PromptText, opts)
	headroom := r.ledger.CheckHeadroom(ctx, req.UserID, int64(estimated))
	if headroom.WouldExceed {
		r.logger.WarnContext(ctx, "daily token limit would be exceeded",
			"user_id", req.UserID.String(),
			"current_usage", headroom.CurrentUsage,
			"daily_limit", headroom.DailyLimit,
			"estimated_tokens", estimated,
			"enforced", r.config.EnforceQuota)
		if r.config.EnforceQuota {
			return nil, fmt.Errorf("%w: used %d of %d, need %d",
				ErrQuotaExceeded, headroom.CurrentUsage, headroom.DailyLimit, estimated)
		}
	}

	if req.Kind == domain.KindCards {
		return r.obtainCards(ctx, req, key, estimated, headroom)
	}
	return r.obtainText(ctx, req, key, estimated, headroom)
}

// estimateTokens approximates a request's cost: one token per four prompt
// characters plus the output budget, clipped to the per-request ceiling.
func (r *Responder) estimateTokens(prompt string, opts domain.RequestOptions) int {
	estimate := (len(prompt)+3)/4 + opts.MaxTokens
	if estimate > r.config.MaxTokensPerRequest {
		estimate = r.config.MaxTokensPerRequest
	}
	return estimate
}

// obtainText handles the single-attempt kinds (hint, explanation,
// improvement). Provider failures of any class are surfaced: there is no
// safe synthetic fallback for these kinds.
func (r *Responder) obtainText(
	ctx context.Context,
	req domain.GenerationRequest,
	key string,
	estimated int,
	headroom quota.Headroom,
) (*Outcome, error) {
	result, err := r.generator.Generate(ctx, req.PromptText, req.Options)
	if err != nil {
		return nil, fmt.Errorf("%w: kind %q: %w", ErrGenerationFailed, req.Kind, err)
	}

	content := stripFences(result.Text)
	if req.Kind == domain.KindImprovement {
		improvement, err := parseImprovement(result.Text)
		if err != nil {
			return nil, err
		}
		// Cache the canonical form, not the raw provider text.
		canonical, _ := json.Marshal(improvement)
		content = string(canonical)
	}

	tokens := result.TokenCount
	if tokens == 0 {
		tokens = estimated
	}

	r.writeThrough(ctx, req, key, content, tokens)

	return &Outcome{
		Content:        content,
		TokensConsumed: tokens,
		Headroom:       &headroom,
	}, nil
}

// obtainCards handles the cards kind: up to CardAttempts generation
// attempts with repair between parse failures and a short backoff between
// attempts. Exhausting all attempts degrades to the built-in fallback pool;
// the cards kind never hard-fails the caller on transient trouble.
// Permanent provider errors are surfaced immediately without retry.
func (r *Responder) obtainCards(
	ctx context.Context,
	req domain.GenerationRequest,
	key string,
	estimated int,
	headroom quota.Headroom,
) (*Outcome, error) {
	var lastErr error

	for attempt := 1; attempt <= r.config.CardAttempts; attempt++ {
		if attempt > 1 {
			if err := r.sleep(ctx, r.config.RetryBackoff); err != nil {
				return nil, err
			}
		}

		result, err := r.generator.Generate(ctx, req.PromptText, req.Options)
		if err != nil {
			if !generation.IsTransient(err) {
				return nil, fmt.Errorf("%w: kind %q: %w", ErrGenerationFailed, req.Kind, err)
			}
			lastErr = err
			r.logger.WarnContext(ctx, "card generation attempt failed",
				"attempt", attempt,
				"max_attempts", r.config.CardAttempts,
				"error", err)
			continue
		}

		cards, err := parseCards(result.Text)
		if err != nil {
			lastErr = err
			r.logger.WarnContext(ctx, "card parse failed after repair",
				"attempt", attempt,
				"max_attempts", r.config.CardAttempts,
				"error", err)
			continue
		}

		if req.CardCount > 0 && len(cards) > req.CardCount {
			cards = cards[:req.CardCount]
		}

		content, _ := json.Marshal(cards)
		tokens := result.TokenCount
		if tokens == 0 {
			tokens = estimated
		}

		r.writeThrough(ctx, req, key, string(content), tokens)

		return &Outcome{
			Content:        string(content),
			TokensConsumed: tokens,
			Cards:          cards,
			Headroom:       &headroom,
		}, nil
	}

	r.logger.ErrorContext(ctx, "card generation exhausted all attempts, serving fallback",
		"attempts", r.config.CardAttempts,
		"requested_count", req.CardCount,
		"last_error", lastErr)

	cards := fallbackCards(req.CardCount)
	content, _ := json.Marshal(cards)

	// Fallback content is synthetic: it is neither cached nor charged.
	return &Outcome{
		Content:  string(content),
		Cards:    cards,
		Headroom: &headroom,
	}, nil
}

// writeThrough stores the generated payload in the cache with the kind's
// TTL and records the consumed tokens in the quota ledger. Both writes are
// best-effort by construction of their targets.
func (r *Responder) writeThrough(
	ctx context.Context,
	req domain.GenerationRequest,
	key string,
	content string,
	tokens int,
) {
	ttl := req.Options.TTL
	if ttl <= 0 {
		ttl = domain.DefaultOptionsForKind(req.Kind).TTL
	}

	payload := aicache.Payload{
		Content:        content,
		TokensConsumed: tokens,
		ProducedAt:     time.Now().UTC(),
	}
	r.cache.Put(ctx, key, req.Kind, aicache.PromptHash(req.PromptText), payload, ttl)
	r.ledger.Record(ctx, req.UserID, int64(tokens))
}
