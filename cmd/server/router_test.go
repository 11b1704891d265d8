package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/cardwise-api/internal/aicache"
	"github.com/cardwise/cardwise-api/internal/api/middleware"
	"github.com/cardwise/cardwise-api/internal/config"
	"github.com/cardwise/cardwise-api/internal/domain"
	"github.com/cardwise/cardwise-api/internal/generation"
	"github.com/cardwise/cardwise-api/internal/quota"
	"github.com/cardwise/cardwise-api/internal/responder"
	"github.com/cardwise/cardwise-api/internal/store"
)

type stubUsageStore struct{}

func (stubUsageStore) GetLimits(context.Context, uuid.UUID) (*store.UserLimits, error) {
	return &store.UserLimits{DailyLimit: 10000}, nil
}

func (stubUsageStore) IncrementCumulative(context.Context, uuid.UUID, int64) error {
	return nil
}

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, string, domain.RequestOptions) (*generation.Result, error) {
	return &generation.Result{Text: "stub", TokenCount: 1}, nil
}

func newTestApplication(t *testing.T) *application {
	t.Helper()

	logger := slog.Default()
	cache := aicache.NewResponseCache(nil, nil, logger)
	ledger := quota.NewLedger(stubUsageStore{}, nil, 10000, logger)
	svc := responder.New(cache, ledger, stubGenerator{}, responder.DefaultConfig(), logger)

	return &application{
		config: &config.Config{
			Server: config.ServerConfig{Port: 8080, LogLevel: "info"},
		},
		logger:    logger,
		responder: svc,
	}
}

func TestRouterHealthCheck(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouterRequiresIdentity(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/ai/usage", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterUsageWithIdentity(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/ai/usage", nil)
	req.Header.Set(middleware.UserIDHeader, uuid.New().String())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "daily_limit")
}
