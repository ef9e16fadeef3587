package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/mrops-br/store-api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLoggerInjectsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := initLogger(&buf, &config.OTLPConfig{ServiceName: "store-api", Environment: "test"})

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	ctx = WithHTTPRoute(ctx, "/products/{id}")
	logger.InfoContext(ctx, "hello")
	span.End()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "store-api", record["service.name"])
	assert.Equal(t, "/products/{id}", record["http.route"])
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
}

func TestLoggerWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := initLogger(&buf, &config.OTLPConfig{ServiceName: "store-api", Environment: "test"})

	logger.Info("plain")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	_, hasTrace := record["trace_id"]
	assert.False(t, hasTrace)
}
