package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cardwise/cardwise-api/internal/store"
)

// UserUsageStore implements the store.UserUsageStore interface using a
// PostgreSQL database as the storage backend.
type UserUsageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserUsageStore creates a new PostgreSQL implementation of the
// UserUsageStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewUserUsageStore(db store.DBTX, logger *slog.Logger) *UserUsageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserUsageStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_usage_store")),
	}
}

// Ensure UserUsageStore implements store.UserUsageStore interface
var _ store.UserUsageStore = (*UserUsageStore)(nil)

// GetLimits implements store.UserUsageStore.GetLimits
func (s *UserUsageStore) GetLimits(ctx context.Context, userID uuid.UUID) (*store.UserLimits, error) {
	var limits store.UserLimits
	err := s.db.QueryRowContext(ctx,
		`SELECT daily_token_limit, tokens_used FROM users WHERE id = $1`,
		userID,
	).Scan(&limits.DailyLimit, &limits.CumulativeUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user limits: %w", err)
	}
	return &limits, nil
}

// IncrementCumulative implements store.UserUsageStore.IncrementCumulative
func (s *UserUsageStore) IncrementCumulative(ctx context.Context, userID uuid.UUID, tokens int64) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET tokens_used = tokens_used + $1 WHERE id = $2`,
		tokens, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment cumulative usage: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return store.ErrNotFound
	}

	s.logger.DebugContext(ctx, "incremented cumulative token usage",
		"user_id", userID.String(),
		"tokens", tokens)
	return nil
}
