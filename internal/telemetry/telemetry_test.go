package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	// No-op tracers never record.
	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.False(t, span.IsRecording())
	span.End()
}

func TestWithDefaults(t *testing.T) {
	cfg := withDefaults(Config{Enabled: true})
	assert.Equal(t, DefaultServiceName, cfg.ServiceName)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, "production", cfg.Environment)

	cfg = withDefaults(Config{ServiceName: "custom", Endpoint: "localhost:4317", Environment: "dev"})
	assert.Equal(t, "custom", cfg.ServiceName)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, "dev", cfg.Environment)
}
