package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"ageheap/pkg/contracts/domain"
)

// WriteJSON writes resp as indented JSON.
func WriteJSON(w io.Writer, resp *domain.AnalysisResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}

// Write writes resp to w in format f.
func Write(w io.Writer, f Format, resp *domain.AnalysisResponse) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, resp)
	case FormatCSV:
		return WriteCSVWithOptions(w, resp, WriteOptions{BOMPrefix: true})
	case FormatXLSX:
		return WriteXLSX(w, resp)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// WriteFile writes resp to path in format f, creating parent directories.
func WriteFile(path string, f Format, resp *domain.AnalysisResponse) (err error) {
	slog.Info("Writing export file",
		slog.String("file_path", path),
		slog.String("format", string(f)))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return Write(file, f, resp)
}
