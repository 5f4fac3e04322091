package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestInitializeDisabled(t *testing.T) {
	p, err := Initialize(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, p.Shutdown(context.Background()), "nil provider shuts down cleanly")
}

func TestExportPath(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "/v1/traces"},
		{"/", "/v1/traces"},
		{"/otlp", "/otlp/v1/traces"},
		{"otlp/", "/otlp/v1/traces"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exportPath(tt.prefix, "traces"), "prefix %q", tt.prefix)
	}
}

func TestInitializeExportsUnderURLPrefix(t *testing.T) {
	var (
		mu    sync.Mutex
		paths = map[string]bool{}
	)
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths[r.URL.Path] = true
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	prevTracers, prevMeters := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTracers)
		otel.SetMeterProvider(prevMeters)
	})

	ctx := context.Background()
	p, err := Initialize(ctx, Config{
		Enabled:     true,
		ServiceName: "gymgraph-test",
		Endpoint:    strings.TrimPrefix(collector.URL, "http://"),
		URLPrefix:   "/otlp",
		Insecure:    true,
	}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, p)

	_, span := otel.Tracer("test").Start(ctx, "work")
	span.End()
	counter, err := otel.Meter("test").Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	require.NoError(t, p.Shutdown(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, paths["/otlp/v1/traces"], "got %v", paths)
	assert.True(t, paths["/otlp/v1/metrics"], "got %v", paths)
}

func TestFiberMiddlewareRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	app := fiber.New()
	app.Use(FiberMiddleware())
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusBadGateway) })

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	_, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /health", spans[0].Name())
	assert.Equal(t, "GET /boom", spans[1].Name())
	assert.Equal(t, "Error", spans[1].Status().Code.String())
}
