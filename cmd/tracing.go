package rootcmd

import (
	"context"
	"os"
	"time"

	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/tracing"
)

// tracingEndpointVars are the OTLP settings that turn tracing on. The
// exporter reads the rest of its configuration from the standard OTEL_*
// environment variables.
var tracingEndpointVars = []string{
	"OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
}

func tracingEnabled() bool {
	for _, k := range tracingEndpointVars {
		if len(os.Getenv(k)) > 0 {
			return true
		}
	}
	return false
}

// InitTracing installs the global trace provider when an OTLP endpoint is
// configured. The returned function flushes and stops it; it is a no-op
// when tracing is off.
func InitTracing(ctx context.Context, serviceName string) (tracing.TpShutdownFunc, error) {
	if !tracingEnabled() {
		return func(context.Context) error { return nil }, nil
	}

	tpShutdownFn, err := tracing.InitTracer(ctx,
		&tracing.TracerConfig{
			ServiceName: serviceName,
			Environment: os.Getenv("DEPLOYMENT_MODE"),
		},
	)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		log := logger.Setup()
		log.Debug("shutting down trace provider")
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tpShutdownFn(shutdownCtx)
	}, nil
}
