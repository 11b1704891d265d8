package quota

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/store"
)

// DailyCounter is the fast-tier daily consumption counter. A nil counter
// (fast tier disabled) and a failing counter are both treated as zero
// usage. Implementations must provide atomic increments.
type DailyCounter interface {
	// Get returns the user's consumption in the current 24h window.
	Get(ctx context.Context, userID uuid.UUID) (int64, error)

	// Add atomically increments the user's daily counter, attaching a
	// rolling 24h expiry to fresh windows.
	Add(ctx context.Context, userID uuid.UUID, tokens int64) error
}

// Headroom is the outcome of a pre-generation quota check.
type Headroom struct {
	CurrentUsage int64
	DailyLimit   int64
	WouldExceed  bool
}

// Ledger tracks per-user daily consumption against a limit. The daily
// counter and the durable cumulative counter are updated independently;
// eventual, approximate consistency between them is accepted by design.
type Ledger struct {
	usage        store.UserUsageStore
	counter      DailyCounter
	defaultLimit int64
	logger       *slog.Logger
}

// NewLedger creates a quota ledger. counter may be nil when the fast tier
// is disabled; defaultLimit applies when a user's durable record cannot be
// read. If logger is nil, the default logger is used.
func NewLedger(usage store.UserUsageStore, counter DailyCounter, defaultLimit int64, logger *slog.Logger) *Ledger {
	if usage == nil {
		panic("usage store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		usage:        usage,
		counter:      counter,
		defaultLimit: defaultLimit,
		logger:       logger.With(slog.String("component", "quota_ledger")),
	}
}

// CheckHeadroom reads the daily counter and the user's configured limit and
// reports whether the estimated spend would exceed it. Unavailability of
// either source degrades to allow: an unreadable counter counts as zero
// usage and an unreadable user record falls back to the default limit.
func (l *Ledger) CheckHeadroom(ctx context.Context, userID uuid.UUID, estimatedTokens int64) Headroom {
	var current int64
	if l.counter != nil {
		value, err := l.counter.Get(ctx, userID)
		if err != nil {
			l.logger.WarnContext(ctx, "daily counter unavailable, assuming zero usage",
				"user_id", userID.String(),
				"error", err)
		} else {
			current = value
		}
	}

	limit := l.defaultLimit
	limits, err := l.usage.GetLimits(ctx, userID)
	if err != nil {
		l.logger.WarnContext(ctx, "user limit record unavailable, using default limit",
			"user_id", userID.String(),
			"default_limit", l.defaultLimit,
			"error", err)
	} else {
		limit = limits.DailyLimit
	}

	return Headroom{
		CurrentUsage: current,
		DailyLimit:   limit,
		WouldExceed:  current+estimatedTokens > limit,
	}
}

// Record adds consumed tokens to the daily counter and the durable
// cumulative counter. Both writes are best-effort and independent; failures
// are logged and never propagated, since under-counting is preferred over
// failing a completed generation.
func (l *Ledger) Record(ctx context.Context, userID uuid.UUID, tokens int64) {
	if tokens <= 0 {
		return
	}

	if l.counter != nil {
		if err := l.counter.Add(ctx, userID, tokens); err != nil {
			l.logger.WarnContext(ctx, "failed to update daily counter",
				"user_id", userID.String(),
				"tokens", tokens,
				"error", err)
		}
	}

	if err := l.usage.IncrementCumulative(ctx, userID, tokens); err != nil {
		l.logger.WarnContext(ctx, "failed to update cumulative usage",
			"user_id", userID.String(),
			"tokens", tokens,
			"error", err)
	}
}

// UsageSnapshot combines both tiers into a read-only consumption report.
func (l *Ledger) UsageSnapshot(ctx context.Context, userID uuid.UUID) domain.UsageSnapshot {
	headroom := l.CheckHeadroom(ctx, userID, 0)

	var total int64
	if limits, err := l.usage.GetLimits(ctx, userID); err == nil {
		total = limits.CumulativeUsed
	}

	remaining := headroom.DailyLimit - headroom.CurrentUsage
	if remaining < 0 {
		remaining = 0
	}

	return domain.UsageSnapshot{
		TotalConsumed:  total,
		TodayConsumed:  headroom.CurrentUsage,
		DailyLimit:     headroom.DailyLimit,
		RemainingToday: remaining,
	}
}
