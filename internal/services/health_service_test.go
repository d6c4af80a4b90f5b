package services

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ageheap/internal/config"
	"ageheap/internal/shared/testutil"
	"ageheap/internal/validation"
)

func newHealthService(t *testing.T, uploadDir string) *HealthService {
	t.Helper()
	validator := validation.NewFileValidator(config.UploadConfig{
		Dir:               uploadDir,
		MaxBytes:          config.DefaultMaxUploadBytes,
		AllowedExtensions: []string{"xlsx"},
	}, testutil.DiscardLogger())
	return NewHealthService("1.2.3", uploadDir, validator, testutil.DiscardLogger())
}

func TestHealthService_HealthCheck(t *testing.T) {
	hs := newHealthService(t, t.TempDir())

	status := hs.HealthCheck(context.Background())

	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	tests := []struct {
		name       string
		uploadDir  string
		wantStatus string
		wantUpload string
	}{
		{name: "writable directory", uploadDir: t.TempDir(), wantStatus: "ready", wantUpload: "ready"},
		{name: "directory created on demand", uploadDir: filepath.Join(t.TempDir(), "a", "b"), wantStatus: "ready", wantUpload: "ready"},
		{name: "path below a regular file", uploadDir: filepath.Join(blocker, "uploads"), wantStatus: "not_ready", wantUpload: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := newHealthService(t, tt.uploadDir).ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			require.Contains(t, status.Services, "uploads")
			assert.Equal(t, tt.wantUpload, status.Services["uploads"].Status)
			assert.Equal(t, "ready", status.Services["engine"].Status)
		})
	}
}

func TestHealthService_ReadinessCheck_NoValidator(t *testing.T) {
	hs := NewHealthService("1.2.3", t.TempDir(), nil, nil)

	status := hs.ReadinessCheck(context.Background())

	assert.Equal(t, "not_ready", status.Status)
}

func TestHealthService_LivenessCheck(t *testing.T) {
	status := newHealthService(t, t.TempDir()).LivenessCheck(context.Background())

	assert.Equal(t, "alive", status.Status)
	assert.Equal(t, runtime.Version(), status.Runtime["go_version"])
	assert.Contains(t, status.Runtime, "uptime")
	assert.Contains(t, status.Runtime, "goroutines")
}

func TestHealthService_Version(t *testing.T) {
	info := newHealthService(t, t.TempDir()).Version()

	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, "v1", info["api_version"])
	for _, key := range []string{"build_time", "git_commit", "go_version", "os", "arch", "uptime", "start_time"} {
		assert.Contains(t, info, key)
	}
}
