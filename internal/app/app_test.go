package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ageheap/internal/config"
	"ageheap/internal/infrastructure"
	"ageheap/internal/shared/testutil"
)

// createTestLogger creates a logger that discards output for testing
func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Upload.Dir = filepath.Join(t.TempDir(), "uploads")
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	app, err := New(cfg, createTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.OTelProviders.Shutdown(context.Background())
	})
	return app
}

func serve(app *Application, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func workbookUpload(t *testing.T, path string) *http.Request {
	t.Helper()

	body, contentType := testutil.MultipartFile(t, "file", "population.xlsx",
		testutil.Workbook(t, testutil.Pyramid(90)))
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return req
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := New(nil, createTestLogger())
		assert.Error(t, err)
	})

	t.Run("wires services", func(t *testing.T) {
		app := newTestApp(t, testConfig(t))

		assert.NotNil(t, app.Router)
		assert.NotNil(t, app.HeapingService)
		assert.NotNil(t, app.HealthService)
		assert.NotNil(t, app.Metrics)
		assert.NotNil(t, app.OTelProviders.PrometheusHTTP)
	})

	t.Run("metrics disabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Telemetry.MetricsEnabled = false
		app := newTestApp(t, cfg)

		rec := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNewApplication(t *testing.T) {
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	t.Run("missing config file", func(t *testing.T) {
		infrastructure.ResetLoggerForTesting()
		t.Setenv("AGEHEAP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
		t.Setenv("AGEHEAP_UPLOAD_DIR", filepath.Join(t.TempDir(), "uploads"))
		t.Setenv("AGEHEAP_SERVER_PORT", "18080")
		t.Setenv("AGEHEAP_LOGGING_LEVEL", "error")

		_, err := NewApplication()
		// The config file named by AGEHEAP_CONFIG must exist.
		assert.Error(t, err)
	})

	t.Run("invalid port", func(t *testing.T) {
		infrastructure.ResetLoggerForTesting()
		t.Setenv("AGEHEAP_CONFIG", "")
		t.Setenv("AGEHEAP_SERVER_PORT", "70000")

		_, err := NewApplication()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("valid", func(t *testing.T) {
		infrastructure.ResetLoggerForTesting()
		t.Setenv("AGEHEAP_CONFIG", "")
		t.Setenv("AGEHEAP_UPLOAD_DIR", filepath.Join(t.TempDir(), "uploads"))
		t.Setenv("AGEHEAP_SERVER_PORT", "18080")
		t.Setenv("AGEHEAP_LOGGING_LEVEL", "error")

		app, err := NewApplication()
		require.NoError(t, err)
		assert.Equal(t, ":18080", app.Server.Addr)
		_ = app.OTelProviders.Shutdown(context.Background())
	})
}

func TestApplication_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/api/health", http.StatusOK},
		{"readiness", http.MethodGet, "/api/health/ready", http.StatusOK},
		{"liveness", http.MethodGet, "/api/health/live", http.StatusOK},
		{"version", http.MethodGet, "/api/version", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/upload", http.StatusMethodNotAllowed},
	}

	app := newTestApp(t, testConfig(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(app, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestApplication_UploadFlow(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	for _, path := range []string{"/upload", "/api/upload"} {
		rec := serve(app, workbookUpload(t, path))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
	}

	rec := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ageheap_analyses")
	assert.Contains(t, rec.Body.String(), "http_requests")
	assert.Contains(t, rec.Body.String(), "ageheap_runtime_goroutines")
}

func TestApplication_UploadWithoutFile(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("--xyz--\r\n"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := serve(app, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Aucun fichier fourni", resp["error"])
	assert.Equal(t, float64(http.StatusBadRequest), resp["status"])
}

func TestApplication_BodyLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Upload.MaxBytes = 1024
	app := newTestApp(t, cfg)

	rec := serve(app, workbookUpload(t, "/upload"))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	app := newTestApp(t, cfg)

	first := serve(app, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	second := serve(app, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	// Scrapes are outside the limiter.
	metrics := serve(app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, metrics.Code)
}

func TestApplication_CORSPreflight(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.AllowedOrigins = []string{"http://example.test"}
	app := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/indices", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(app, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://example.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestApplication_createServer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 9090
	app := newTestApp(t, cfg)

	assert.Equal(t, "127.0.0.1:9090", app.Server.Addr)
	assert.Equal(t, app.Router, app.Server.Handler)
	assert.Equal(t, cfg.Server.ReadTimeout, app.Server.ReadTimeout)
	assert.Equal(t, cfg.Server.WriteTimeout, app.Server.WriteTimeout)
	assert.Equal(t, cfg.Server.IdleTimeout, app.Server.IdleTimeout)
	assert.Equal(t, cfg.Server.MaxHeaderBytes, app.Server.MaxHeaderBytes)
}

func TestApplication_StartStop(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Host = "127.0.0.1"
	app := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	time.Sleep(50 * time.Millisecond)

	// A clean start does not cancel the context.
	assert.NoError(t, ctx.Err())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	assert.NoError(t, app.Stop(shutdownCtx))

	// The upload directory was created by the startup check.
	assert.DirExists(t, cfg.Upload.Dir)
}
