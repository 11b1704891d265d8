package aicache

import (
	"context"
	"log/slog"
	"time"

	"github.com/cardwise/cardwise-api/internal/domain"
)

// Payload is the cached value for one fingerprint: the generated content,
// the tokens it cost to produce, and when it was produced.
type Payload struct {
	Content        string    `json:"content"`
	TokensConsumed int       `json:"tokens"`
	ProducedAt     time.Time `json:"produced_at"`
}

// FastTier is the low-latency TTL-based cache tier (typically Valkey).
// Implementations return (zero, false, nil) on a miss and reserve the error
// for tier unavailability.
type FastTier interface {
	Get(ctx context.Context, key string) (Payload, bool, error)
	Set(ctx context.Context, key string, payload Payload, ttl time.Duration) error
}

// DurableTier is the persistent cache tier used for long-term reuse and
// audit. Entries do not strictly expire but are treated as stale past their
// recorded expiry.
type DurableTier interface {
	// Get returns the payload and whether the entry is still fresh.
	// A missing entry is (zero, false, nil); errors mean tier failure.
	Get(ctx context.Context, key string) (Payload, bool, error)

	// Put upserts an entry keyed by fingerprint, retaining the request kind
	// and a content hash of the prompt for audit.
	Put(ctx context.Context, key string, kind domain.RequestKind, promptHash string, payload Payload, expiresAt time.Time) error
}

// ResponseCache is the two-tier content-addressed store keyed by
// fingerprint. Either tier may be nil; a cache with no tiers degrades to
// "always miss", turning every request into a live generation.
type ResponseCache struct {
	fast    FastTier
	durable DurableTier
	logger  *slog.Logger
}

// NewResponseCache creates a ResponseCache over the given tiers. Either
// tier may be nil. If logger is nil, the default logger is used.
func NewResponseCache(fast FastTier, durable DurableTier, logger *slog.Logger) *ResponseCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResponseCache{
		fast:    fast,
		durable: durable,
		logger:  logger.With(slog.String("component", "response_cache")),
	}
}

// Get looks up a fingerprint, fast tier first. A fresh durable-tier hit
// backfills the fast tier best-effort. Tier failures are logged and treated
// as misses; Get never returns an error to the caller.
func (c *ResponseCache) Get(ctx context.Context, key string) (Payload, bool) {
	if c.fast != nil {
		payload, ok, err := c.fast.Get(ctx, key)
		if err != nil {
			c.logger.WarnContext(ctx, "fast tier read failed, treating as miss",
				"cache_key", key,
				"error", err)
		} else if ok {
			return payload, true
		}
	}

	if c.durable != nil {
		payload, fresh, err := c.durable.Get(ctx, key)
		if err != nil {
			c.logger.WarnContext(ctx, "durable tier read failed, treating as miss",
				"cache_key", key,
				"error", err)
			return Payload{}, false
		}
		if fresh {
			c.backfillFast(ctx, key, payload)
			return payload, true
		}
	}

	return Payload{}, false
}

// Put writes the payload to the fast tier with the given TTL and upserts
// the durable tier best-effort. Durable-tier failures never fail the put.
func (c *ResponseCache) Put(
	ctx context.Context,
	key string,
	kind domain.RequestKind,
	promptHash string,
	payload Payload,
	ttl time.Duration,
) {
	if c.fast != nil {
		if err := c.fast.Set(ctx, key, payload, ttl); err != nil {
			c.logger.WarnContext(ctx, "fast tier write failed",
				"cache_key", key,
				"error", err)
		}
	}

	if c.durable != nil {
		expiresAt := time.Now().UTC().Add(ttl)
		if err := c.durable.Put(ctx, key, kind, promptHash, payload, expiresAt); err != nil {
			c.logger.WarnContext(ctx, "durable tier write failed",
				"cache_key", key,
				"error", err)
		}
	}
}

// backfillFast repopulates the fast tier after a durable-tier hit so
// subsequent lookups stay cheap. The remaining TTL is not recoverable from
// the durable entry's freshness check alone, so the backfill uses a short
// fixed window.
func (c *ResponseCache) backfillFast(ctx context.Context, key string, payload Payload) {
	if c.fast == nil {
		return
	}
	if err := c.fast.Set(ctx, key, payload, time.Hour); err != nil {
		c.logger.DebugContext(ctx, "fast tier backfill failed",
			"cache_key", key,
			"error", err)
	}
}
