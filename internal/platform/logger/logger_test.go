package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/cardwise/cardwise-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
		t.Run(level, func(t *testing.T) {
			logger := Setup(config.ServerConfig{Port: 8080, LogLevel: level})
			require.NotNil(t, logger)
		})
	}
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger := Setup(config.ServerConfig{Port: 8080, LogLevel: "verbose"})
	require.NotNil(t, logger)

	// Info should be enabled, debug should not.
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
