package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/gratitudeapp/gratitude-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupParsesLevels(t *testing.T) {
	tests := []struct {
		configured string
		enabled    slog.Level
		disabled   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"nonsense", slog.LevelInfo, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.configured, func(t *testing.T) {
			log := Setup(config.ServerConfig{Port: 3000, LogLevel: tt.configured})
			require.NotNil(t, log)
			assert.True(t, log.Enabled(context.Background(), tt.enabled))
			assert.False(t, log.Enabled(context.Background(), tt.disabled))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	log := slog.Default().With(slog.String("component", "test"))
	ctx := WithLogger(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
	assert.Same(t, log, FromContextOrDefault(ctx, nil))
}

func TestFromContextOrDefaultFallsBack(t *testing.T) {
	t.Parallel()

	def := slog.Default().With(slog.String("component", "fallback"))
	assert.Same(t, def, FromContextOrDefault(context.Background(), def))
	assert.Nil(t, FromContext(context.Background()))
	assert.NotNil(t, FromContextOrDefault(context.Background(), nil))
}
