package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadFrom tests loading with various env and file combinations
func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars or file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

				assert.Equal(t, "uploads", cfg.Upload.Dir)
				assert.Equal(t, int64(16*1024*1024), cfg.Upload.MaxBytes)
				assert.Equal(t, []string{"xlsx", "xls"}, cfg.Upload.AllowedExtensions)

				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.True(t, cfg.Telemetry.MetricsEnabled)
			},
		},
		{
			name: "environment variables",
			env: map[string]string{
				"AGEHEAP_SERVER_PORT":                 "9090",
				"AGEHEAP_SERVER_READ_TIMEOUT":         "30s",
				"AGEHEAP_UPLOAD_DIR":                  "/tmp/ageheap",
				"AGEHEAP_UPLOAD_MAX_BYTES":            "1024",
				"AGEHEAP_UPLOAD_ALLOWED_EXTENSIONS":   ".XLSX",
				"AGEHEAP_SECURITY_ALLOWED_ORIGINS":    "http://example.com,https://example.com",
				"AGEHEAP_LOGGING_LEVEL":               "debug",
				"AGEHEAP_LOGGING_FORMAT":              "text",
				"AGEHEAP_TELEMETRY_TRACE_EXPORTER":    "stdout",
				"AGEHEAP_TELEMETRY_TRACING_ENABLED":   "true",
				"AGEHEAP_SECURITY_RATE_LIMIT_BURST":   "5",
				"AGEHEAP_SECURITY_RATE_LIMIT_ENABLED": "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "/tmp/ageheap", cfg.Upload.Dir)
				assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
				assert.Equal(t, []string{"xlsx"}, cfg.Upload.AllowedExtensions)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format) // always json
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
				assert.True(t, cfg.Telemetry.TracingEnabled)
				assert.Equal(t, 5, cfg.Security.RateLimit.Burst)
			},
		},
		{
			name: "file values over defaults",
			file: `
server:
  port: 7000
upload:
  dir: staging
  max_bytes: 2048
logging:
  output: both
  file_path: custom.log
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7000, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout) // untouched default
				assert.Equal(t, "staging", cfg.Upload.Dir)
				assert.Equal(t, int64(2048), cfg.Upload.MaxBytes)
				assert.Equal(t, "both", cfg.Logging.Output)
				assert.Equal(t, "custom.log", cfg.Logging.FilePath)
			},
		},
		{
			name: "env over file",
			env:  map[string]string{"AGEHEAP_SERVER_PORT": "7100"},
			file: "server:\n  port: 7000\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7100, cfg.Server.Port)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"AGEHEAP_SERVER_PORT": "99999"},
			wantErr: "invalid server port",
		},
		{
			name:    "non-numeric port",
			env:     map[string]string{"AGEHEAP_SERVER_PORT": "abc"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "zero upload size",
			env:     map[string]string{"AGEHEAP_UPLOAD_MAX_BYTES": "0"},
			wantErr: "upload max bytes must be positive",
		},
		{
			name:    "unknown log output",
			env:     map[string]string{"AGEHEAP_LOGGING_OUTPUT": "syslog"},
			wantErr: "invalid logging output",
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"AGEHEAP_TELEMETRY_TRACE_EXPORTER": "jaeger"},
			wantErr: "invalid trace exporter",
		},
		{
			name:    "sample rate out of range",
			file:    "telemetry:\n  sample_rate: 1.5\n",
			wantErr: "sample rate",
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestGetConfigFilePath_EnvOverride(t *testing.T) {
	t.Setenv("AGEHEAP_CONFIG", "/etc/ageheap/config.yaml")
	assert.Equal(t, "/etc/ageheap/config.yaml", getConfigFilePath())
}

func TestServerAddress(t *testing.T) {
	assert.Equal(t, ":8080", Default().Server.Address())
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: 9000}.Address())
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().validate())
}
