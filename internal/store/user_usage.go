package store

import (
	"context"

	"github.com/google/uuid"
)

// UserLimits is the durable portion of a user's quota record.
type UserLimits struct {
	// DailyLimit is the user's configured daily token allowance.
	DailyLimit int64

	// CumulativeUsed is the authoritative lifetime token counter.
	// It is monotonic and never decreases.
	CumulativeUsed int64
}

// UserUsageStore reads and updates the durable per-user usage record.
type UserUsageStore interface {
	// GetLimits retrieves a user's daily limit and cumulative usage.
	// Returns ErrNotFound if the user does not exist.
	GetLimits(ctx context.Context, userID uuid.UUID) (*UserLimits, error)

	// IncrementCumulative adds tokens to the user's lifetime counter.
	// The increment is unconditional and not transactional with any
	// fast-tier counter update.
	IncrementCumulative(ctx context.Context, userID uuid.UUID, tokens int64) error
}
