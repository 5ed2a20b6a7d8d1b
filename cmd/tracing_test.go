package rootcmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingEnabled(t *testing.T) {
	for _, k := range tracingEndpointVars {
		t.Setenv(k, "")
	}
	assert.False(t, tracingEnabled())

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "http://localhost:4318/v1/traces")
	assert.True(t, tracingEnabled())
}

func TestInitTracingDisabled(t *testing.T) {
	for _, k := range tracingEndpointVars {
		t.Setenv(k, "")
	}

	shutdown, err := InitTracing(context.Background(), "cuepick")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
