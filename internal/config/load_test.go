package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CARDWISE_DATABASE_URL", "postgres://localhost:5432/cardwise_test")
	t.Setenv("CARDWISE_LLM_GEMINI_API_KEY", "test-key")
	t.Setenv("CARDWISE_SERVER_PORT", "9090")
	t.Setenv("CARDWISE_QUOTA_ENFORCE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/cardwise_test", cfg.Database.URL)
	assert.Equal(t, "test-key", cfg.LLM.GeminiAPIKey)
	assert.True(t, cfg.Quota.Enforce)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CARDWISE_DATABASE_URL", "postgres://localhost:5432/cardwise_test")
	t.Setenv("CARDWISE_LLM_GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
	assert.Equal(t, 1000, cfg.LLM.MaxTokensPerRequest)
	assert.Equal(t, 30*time.Second, cfg.LLM.RequestTimeout)
	assert.Equal(t, 10000, cfg.Quota.DefaultDailyLimit)
	assert.False(t, cfg.Quota.Enforce)
	assert.False(t, cfg.Valkey.Enabled)
	assert.False(t, cfg.Batch.Enabled)
	assert.Equal(t, time.Second, cfg.Batch.Window)
	assert.Equal(t, 10, cfg.Batch.MaxSize)
}

func TestLoad_MissingRequired(t *testing.T) {
	// No database URL or API key in the environment.
	t.Setenv("CARDWISE_DATABASE_URL", "")
	t.Setenv("CARDWISE_LLM_GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
