package telemetry

import (
	"context"
	"testing"

	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tp, err := NewTracerProvider(context.Background(), config.TelemetryConfig{
		Enabled: false,
	}, logger)
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"), "disabled provider still hands out a no-op tracer")
	assert.NoError(t, tp.Shutdown(context.Background()))
}
