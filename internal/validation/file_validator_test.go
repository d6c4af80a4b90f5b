package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ageheap/internal/config"
)

func newTestValidator() *FileValidator {
	cfg := config.Default().Upload
	cfg.MaxBytes = 1024
	return NewFileValidator(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFileValidator_ValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  error
	}{
		{name: "xlsx", filename: "pyramide.xlsx", size: 10},
		{name: "legacy xls", filename: "pyramide.xls", size: 10},
		{name: "upper-case extension", filename: "PYRAMIDE.XLSX", size: 10},
		{name: "exactly at the limit", filename: "a.xlsx", size: 1024},
		{name: "unknown size", filename: "a.xlsx", size: -1},
		{name: "empty filename", filename: "", size: 10, wantErr: ErrEmptyFilename},
		{name: "no extension", filename: "pyramide", size: 10, wantErr: ErrExtensionNotAllowed},
		{name: "csv", filename: "pyramide.csv", size: 10, wantErr: ErrExtensionNotAllowed},
		{name: "double extension", filename: "pyramide.xlsx.exe", size: 10, wantErr: ErrExtensionNotAllowed},
		{name: "too large", filename: "a.xlsx", size: 1025, wantErr: ErrFileTooLarge},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.filename, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pyramide.xlsx", "pyramide.xlsx"},
		{"My cool file.xlsx", "My_cool_file.xlsx"},
		{"../../etc/passwd", "etc_passwd"},
		{`C:\Users\ana\pop.xls`, "C_Users_ana_pop.xls"},
		{"données_2023.xlsx", "donnees_2023.xlsx"},
		{"  .hidden.xlsx", "hidden.xlsx"},
		{"数据.xlsx", "xlsx"},
		{"???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SecureFilename(tt.in))
		})
	}
}

func TestFileValidator_ValidateExcelFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "valid xlsx file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "data.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))
				return path
			},
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.xlsx")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "dir.xlsx")
				require.NoError(t, os.Mkdir(dir, 0o755))
				return dir
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
		{
			name: "wrong extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "data.txt")
				require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))
				return path
			},
			wantErr:       true,
			errorContains: "Format de fichier non autorisé",
		},
		{
			name: "office lock file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "~$data.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))
				return path
			},
			wantErr:       true,
			errorContains: "temporary Excel file",
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateExcelFile(tt.setupFunc(t))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := newTestValidator()

	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	require.NoError(t, v.ValidateOutputDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.Error(t, v.ValidateOutputDirectory(filepath.Join(file, "sub")))
}

func TestFileValidator_MaxBytes(t *testing.T) {
	assert.Equal(t, int64(1024), newTestValidator().MaxBytes())
}
