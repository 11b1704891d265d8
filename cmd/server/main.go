// Package main implements the entry point for the cardwise API server,
// which serves AI-generated quiz cards, hints, explanations, and card
// improvements behind a cache-first, quota-aware orchestration layer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cardwise/cardwise-api/internal/config"
	"github.com/cardwise/cardwise-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("cardwise-api: %v", err)
	}
}

func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"valkey_enabled", cfg.Valkey.Enabled,
		"batch_enabled", cfg.Batch.Enabled,
		"quota_enforced", cfg.Quota.Enforce)

	if migrateCmd != "" {
		db, err := setupDatabase(cfg, appLogger)
		if err != nil {
			return err
		}
		defer db.Close()

		appLogger.Info("Executing migrations", "command", migrateCmd)
		return runMigrations(db, migrateCmd)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
