package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mrops-br/store-api/internal/app/service"
	"github.com/mrops-br/store-api/internal/infrastructure/config"
	"github.com/mrops-br/store-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/store-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/store-api/internal/infrastructure/telemetry"
	"github.com/mrops-br/store-api/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, rootPath string) http.Handler {
	t.Helper()
	cfg := &config.Config{
		RootPath: rootPath,
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: "0"},
		OTLP:     config.OTLPConfig{ServiceName: "store-api-test", Environment: "test"},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	telem, err := telemetry.NewNoOpTelemetry(&cfg.OTLP)
	require.NoError(t, err)
	telem.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	tracer := telem.TracerProvider.Tracer("test")
	repo := memory.NewProductRepository(tracer, telem.Logger)
	svc := service.NewProductService(repo, clock.RealClock{}, tracer, telem.MeterProvider.Meter("test"), telem.Logger)

	return NewServer(cfg, handler.NewProductHandler(svc, telem.Logger), telem).Handler()
}

func TestServerRoutes(t *testing.T) {
	h := newTestServer(t, "/api")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	body := `{"name":"Iphone 14 Pro Max","quantity":10,"price":"8.50","status":true}`
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "products_created_total")
}

func TestServerCORS(t *testing.T) {
	h := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/products/", nil)
	req.Header.Set("Origin", "http://shop.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}
