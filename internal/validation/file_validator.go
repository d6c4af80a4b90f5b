package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"ageheap/internal/config"
)

// Upload validation errors. Messages are shown to end users as-is.
var (
	ErrNoFile              = errors.New("Aucun fichier fourni")
	ErrEmptyFilename       = errors.New("Aucun fichier sélectionné")
	ErrExtensionNotAllowed = errors.New("Format de fichier non autorisé. Utilisez .xlsx ou .xls")
	ErrFileTooLarge        = errors.New("Le fichier dépasse la taille maximale autorisée")
)

// FileValidator checks uploaded and local workbook files
type FileValidator struct {
	logger   *slog.Logger
	allowed  map[string]bool
	maxBytes int64
}

// NewFileValidator creates a validator for the given upload policy
func NewFileValidator(cfg config.UploadConfig, logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}

	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	return &FileValidator{
		logger:   logger.With(slog.String("component", "file_validator")),
		allowed:  allowed,
		maxBytes: cfg.MaxBytes,
	}
}

// MaxBytes returns the largest accepted upload size.
func (v *FileValidator) MaxBytes() int64 {
	return v.maxBytes
}

// AllowedFile reports whether filename has an accepted extension. The
// comparison is case-insensitive and looks at the text after the last dot.
func (v *FileValidator) AllowedFile(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	return v.allowed[strings.ToLower(filename[i+1:])]
}

// ValidateUpload checks an upload's client-supplied name and its size in
// bytes. A negative size means unknown and is not checked.
func (v *FileValidator) ValidateUpload(filename string, size int64) error {
	if filename == "" {
		return ErrEmptyFilename
	}

	if !v.AllowedFile(filename) {
		v.logger.Warn("Rejected upload extension", slog.String("filename", filename))
		return ErrExtensionNotAllowed
	}

	if size >= 0 && v.maxBytes > 0 && size > v.maxBytes {
		v.logger.Warn("Rejected oversized upload",
			slog.String("filename", filename),
			slog.Int64("size", size),
			slog.Int64("max_bytes", v.maxBytes))
		return fmt.Errorf("%w (%d octets)", ErrFileTooLarge, v.maxBytes)
	}

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename returns an ASCII-only version of name that is safe to use as
// a single path component. Accents are folded, path separators and whitespace
// runs become underscores, other characters are dropped and leading or
// trailing dots and underscores are trimmed. The result may be empty.
func SecureFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	name = b.String()

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that path is an existing workbook with an accepted
// extension that is not an Office lock file.
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	base := filepath.Base(path)
	if !v.AllowedFile(base) {
		v.logger.Error("File is not an Excel file",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return fmt.Errorf("%w: %s", ErrExtensionNotAllowed, base)
	}

	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Skipping temporary Excel file", slog.String("file", path))
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}

	return nil
}

// ValidateOutputDirectory ensures dir exists and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("directory %s is not writable: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	return nil
}
