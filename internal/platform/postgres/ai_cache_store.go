package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardwise/cardwise-api/internal/aicache"
	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/store"
)

// AICacheStore implements the aicache.DurableTier interface over the
// ai_cache table. Entries are upserted by cache key (last-writer-wins on an
// identical fingerprint) and are treated as stale past their recorded
// expiry, though they are retained for audit.
type AICacheStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewAICacheStore creates a new PostgreSQL implementation of the durable
// cache tier. If logger is nil, a default logger will be used.
func NewAICacheStore(db store.DBTX, logger *slog.Logger) *AICacheStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AICacheStore{
		db:     db,
		logger: logger.With(slog.String("component", "ai_cache_store")),
	}
}

// Ensure AICacheStore implements the aicache.DurableTier interface
var _ aicache.DurableTier = (*AICacheStore)(nil)

// Get implements aicache.DurableTier.Get
func (s *AICacheStore) Get(ctx context.Context, key string) (aicache.Payload, bool, error) {
	var (
		response  []byte
		expiresAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT response, expires_at FROM ai_cache WHERE cache_key = $1`,
		key,
	).Scan(&response, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return aicache.Payload{}, false, nil
		}
		return aicache.Payload{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if expiresAt.Valid && time.Now().UTC().After(expiresAt.Time) {
		// Stale: the row stays for audit but no longer serves lookups.
		return aicache.Payload{}, false, nil
	}

	var payload aicache.Payload
	if err := json.Unmarshal(response, &payload); err != nil {
		s.logger.WarnContext(ctx, "corrupt cache entry, treating as miss",
			"cache_key", key,
			"error", err)
		return aicache.Payload{}, false, nil
	}

	return payload, true, nil
}

// Put implements aicache.DurableTier.Put
func (s *AICacheStore) Put(
	ctx context.Context,
	key string,
	kind domain.RequestKind,
	promptHash string,
	payload aicache.Payload,
	expiresAt time.Time,
) error {
	response, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal cache payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ai_cache (cache_key, request_type, request_hash, response, tokens_used, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (cache_key) DO UPDATE SET
			request_type = EXCLUDED.request_type,
			request_hash = EXCLUDED.request_hash,
			response     = EXCLUDED.response,
			tokens_used  = EXCLUDED.tokens_used,
			expires_at   = EXCLUDED.expires_at`,
		key, string(kind), promptHash, response, payload.TokensConsumed, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}
	return nil
}
