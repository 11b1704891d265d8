package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cardwise/cardwise-api/internal/aicache"
	"github.com/cardwise/cardwise-api/internal/batch"
	"github.com/cardwise/cardwise-api/internal/config"
	"github.com/cardwise/cardwise-api/internal/generation"
	"github.com/cardwise/cardwise-api/internal/platform/gemini"
	"github.com/cardwise/cardwise-api/internal/platform/postgres"
	"github.com/cardwise/cardwise-api/internal/platform/valkey"
	"github.com/cardwise/cardwise-api/internal/quota"
	"github.com/cardwise/cardwise-api/internal/responder"
)

// application holds the wired dependency graph for the server process.
type application struct {
	config *config.Config
	logger *slog.Logger

	db           *sql.DB
	valkeyClient *valkey.Client
	batcher      *batch.Batcher
	responder    *responder.Responder
}

// newApplication builds the full dependency graph from configuration:
// database, optional fast tier, generation provider, cache, quota ledger,
// and the response orchestrator on top.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	var valkeyClient *valkey.Client
	var fastTier aicache.FastTier
	var counter quota.DailyCounter
	if cfg.Valkey.Enabled {
		valkeyClient, err = valkey.NewClient(cfg.Valkey)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to valkey: %w", err)
		}
		fastTier = valkey.NewFastTier(valkeyClient)
		counter = valkey.NewDailyCounter(valkeyClient)
	} else {
		logger.Info("fast tier disabled, running on durable stores only")
	}

	generator, err := gemini.NewGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		if valkeyClient != nil {
			valkeyClient.Close()
		}
		db.Close()
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	var provider generation.Generator = generator
	var batcher *batch.Batcher
	if cfg.Batch.Enabled {
		batcher = batch.New(generator, batch.Config{
			Window:  cfg.Batch.Window,
			MaxSize: cfg.Batch.MaxSize,
		}, logger)
		provider = batcher
	}

	cache := aicache.NewResponseCache(
		fastTier,
		postgres.NewAICacheStore(db, logger),
		logger,
	)
	ledger := quota.NewLedger(
		postgres.NewUserUsageStore(db, logger),
		counter,
		int64(cfg.Quota.DefaultDailyLimit),
		logger,
	)

	svc := responder.New(cache, ledger, provider, responder.Config{
		MaxTokensPerRequest: cfg.LLM.MaxTokensPerRequest,
		EnforceQuota:        cfg.Quota.Enforce,
		CardAttempts:        3,
		RetryBackoff:        0, // use the responder default
	}, logger)

	return &application{
		config:       cfg,
		logger:       logger,
		db:           db,
		valkeyClient: valkeyClient,
		batcher:      batcher,
		responder:    svc,
	}, nil
}

// cleanup releases the application's external resources in reverse
// dependency order.
func (app *application) cleanup() {
	if app.batcher != nil {
		app.batcher.Close()
	}
	if app.valkeyClient != nil {
		app.valkeyClient.Close()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
