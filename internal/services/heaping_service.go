package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ageheap/internal/config"
	"ageheap/internal/demography"
	apierrors "ageheap/internal/errors"
	"ageheap/internal/infrastructure"
	"ageheap/internal/spreadsheet"
	"ageheap/internal/validation"
	api "ageheap/pkg/contracts/api/v1"
	"ageheap/pkg/contracts/domain"
)

// TracerName names the spans of the analysis pipeline.
const TracerName = infrastructure.InstrumentationName + ".analysis"

// Input sources, used as the "source" metric attribute.
const (
	SourceUpload = "upload"
	SourceRows   = "rows"
	SourceFile   = "file"
)

// HeapingService runs the age-heaping pipeline: read an age table, normalize
// it, compute the indices and grade them.
type HeapingService struct {
	validator *validation.FileValidator
	uploadDir string
	metrics   *infrastructure.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger

	compute func(context.Context, demography.AgeTable) (demography.Result, error)
}

// NewHeapingService creates the service. metrics may be nil.
func NewHeapingService(cfg config.UploadConfig, metrics *infrastructure.Metrics, logger *slog.Logger) *HeapingService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HeapingService{
		validator: validation.NewFileValidator(cfg, logger),
		uploadDir: cfg.Dir,
		metrics:   metrics,
		tracer:    otel.Tracer(TracerName),
		logger:    infrastructure.WithComponent(logger, "heaping_service"),
		compute:   demography.Compute,
	}
}

// Validator returns the upload validator used by the service.
func (s *HeapingService) Validator() *validation.FileValidator {
	return s.validator
}

// ProcessUpload analyses an uploaded workbook. The upload is stored in the
// upload directory under a unique sanitized name and removed before
// returning, whatever the outcome. size is the client-declared size, or -1.
// Errors are *errors.APIError values.
func (s *HeapingService) ProcessUpload(ctx context.Context, filename string, r io.Reader, size int64) (*domain.AnalysisResponse, error) {
	return s.ProcessUploadWithOptions(ctx, filename, r, size, spreadsheet.Options{})
}

// ProcessUploadWithOptions is ProcessUpload reading the sheet opts selects.
func (s *HeapingService) ProcessUploadWithOptions(ctx context.Context, filename string, r io.Reader, size int64, opts spreadsheet.Options) (*domain.AnalysisResponse, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "heaping.process_upload",
		trace.WithAttributes(
			attribute.String("upload.filename", filename),
			attribute.Int64("upload.size", size),
			attribute.String("upload.sheet", opts.SheetName),
		))
	defer span.End()

	if err := s.validator.ValidateUpload(filename, size); err != nil {
		return nil, s.fail(ctx, SourceUpload, start, err)
	}

	path, written, err := s.saveUpload(filename, r)
	if err != nil {
		return nil, s.fail(ctx, SourceUpload, start, err)
	}
	defer s.removeUpload(ctx, path)

	s.metrics.RecordUpload(ctx, written)
	span.SetAttributes(attribute.Int64("upload.bytes", written))

	s.logger.InfoContext(ctx, "Upload stored",
		slog.String("filename", filename),
		slog.String("path", path),
		slog.Int64("bytes", written))

	sheet, err := spreadsheet.ReadFile(path, opts)
	if err != nil {
		return nil, s.fail(ctx, SourceUpload, start, err)
	}

	return s.analyzeSheet(ctx, SourceUpload, start, sheet)
}

// ProcessRows analyses an age table sent as JSON. The HTTP handler rejects
// rows without an age before calling it; a row that still arrives without one
// is dropped like a non-numeric spreadsheet age.
func (s *HeapingService) ProcessRows(ctx context.Context, rows []api.AgeRowRequest) (*domain.AnalysisResponse, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "heaping.process_rows",
		trace.WithAttributes(attribute.Int("rows.input", len(rows))))
	defer span.End()

	raw := make([]demography.RawRow, len(rows))
	for i, row := range rows {
		raw[i] = demography.RawRow{Homme: row.Homme, Femme: row.Femme}
		if row.Age != nil {
			raw[i].Age = *row.Age
		}
	}

	return s.analyze(ctx, SourceRows, start, raw)
}

// AnalyzeFile analyses a workbook on the local file system in place.
func (s *HeapingService) AnalyzeFile(ctx context.Context, path string, opts spreadsheet.Options) (*domain.AnalysisResponse, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "heaping.analyze_file",
		trace.WithAttributes(
			attribute.String("file.path", path),
			attribute.String("file.sheet", opts.SheetName),
		))
	defer span.End()

	if err := s.validator.ValidateExcelFile(path); err != nil {
		return nil, s.fail(ctx, SourceFile, start, err)
	}

	sheet, err := spreadsheet.ReadFile(path, opts)
	if err != nil {
		return nil, s.fail(ctx, SourceFile, start, err)
	}

	return s.analyzeSheet(ctx, SourceFile, start, sheet)
}

func (s *HeapingService) analyzeSheet(ctx context.Context, source string, start time.Time, sheet *spreadsheet.Sheet) (*domain.AnalysisResponse, error) {
	raw, err := sheet.AgeRows()
	if err != nil {
		return nil, s.fail(ctx, source, start, err)
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("sheet.name", sheet.Name))
	return s.analyze(ctx, source, start, raw)
}

// analyze is the common tail of every pipeline: normalize, warn, compute, grade.
func (s *HeapingService) analyze(ctx context.Context, source string, start time.Time, raw []demography.RawRow) (*domain.AnalysisResponse, error) {
	table := demography.Normalize(raw)
	warnings := s.tableWarnings(ctx, len(raw), table)

	result, err := s.compute(ctx, table)
	if err != nil {
		// A faulty calculator only blanks its own index; cancellation aborts.
		failed := demography.FailedIndices(err)
		if ctx.Err() != nil || len(failed) == 0 {
			return nil, s.fail(ctx, source, start, err)
		}
		warnings = append(warnings, s.calculatorWarning(ctx, failed, err))
	}

	absent := countAbsent(result)
	duration := time.Since(start)
	s.metrics.RecordAnalysis(ctx, source, infrastructure.OutcomeSuccess, duration, len(table), absent)

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("rows.kept", len(table)),
		attribute.Int("values.absent", absent),
		attribute.Int("warnings", len(warnings)),
	)

	s.logger.InfoContext(ctx, "Analysis completed",
		slog.String("source", source),
		slog.Int("rows", len(table)),
		slog.Int("absent_values", absent),
		slog.Int("warnings", len(warnings)),
		slog.Duration("duration", duration))

	return &domain.AnalysisResponse{
		Success:    true,
		Resultats:  result,
		Data:       table,
		Assessment: demography.Assess(result),
		Warnings:   warnings,
	}, nil
}

// tableWarnings reports dropped rows, unparsed population cells and age gaps.
// The slice is never nil.
func (s *HeapingService) tableWarnings(ctx context.Context, inputRows int, table demography.AgeTable) []domain.Warning {
	warnings := []domain.Warning{}

	if dropped := inputRows - len(table); dropped > 0 {
		s.logger.WarnContext(ctx, "Rows without numeric age dropped", slog.Int("count", dropped))
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarningDroppedRows,
			Message: fmt.Sprintf("%d ligne(s) sans âge numérique ignorée(s)", dropped),
			Details: map[string]int{"count": dropped},
		})
	}

	if unparsed := table.UnparsedCells(); unparsed > 0 {
		s.logger.WarnContext(ctx, "Population cells are not numeric", slog.Int("count", unparsed))
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarningUnparsedPopulation,
			Message: fmt.Sprintf("%d cellule(s) Homme/Femme non numérique(s) comptée(s) comme 0 et exclue(s) de l'ICNU", unparsed),
			Details: map[string]int{"count": unparsed},
		})
	}

	if gaps := demography.CheckContiguity(table); len(gaps) > 0 {
		s.logger.WarnContext(ctx, "Ages are not contiguous",
			slog.Int("gaps", len(gaps)),
			slog.Int("first_position", gaps[0].Position))
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarningNonContiguousAges,
			Message: "Les âges ne se suivent pas: l'ICNU compare des lignes qui ne sont pas des âges voisins",
			Details: gaps,
		})
	}

	return warnings
}

// calculatorWarning logs failed calculators and describes them to the client.
func (s *HeapingService) calculatorWarning(ctx context.Context, failed []string, err error) domain.Warning {
	infrastructure.RecordError(ctx, err)
	s.logger.ErrorContext(ctx, "Index calculation failed",
		slog.Any("indices", failed),
		slog.String("error", err.Error()))

	return domain.Warning{
		Code:    domain.WarningCalculatorFailed,
		Message: "Calcul impossible pour: " + strings.Join(failed, ", "),
		Details: map[string][]string{"indices": failed},
	}
}

// saveUpload copies r into the upload directory, enforcing the size limit
// on the bytes actually received.
func (s *HeapingService) saveUpload(filename string, r io.Reader) (string, int64, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrUploadDirUnavailable, err)
	}

	name := uuid.NewString()
	if safe := validation.SecureFilename(filename); safe != "" {
		name += "_" + safe
	}
	path := filepath.Join(s.uploadDir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrUploadDirUnavailable, err)
	}

	limit := s.validator.MaxBytes()
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}

	written, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("failed to store upload: %w", copyErr)
	case closeErr != nil:
		err = fmt.Errorf("failed to store upload: %w", closeErr)
	case limit > 0 && written > limit:
		err = fmt.Errorf("%w (%d octets)", validation.ErrFileTooLarge, limit)
	}
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}

	return path, written, nil
}

func (s *HeapingService) removeUpload(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.ErrorContext(ctx, "Failed to remove upload",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

// fail maps err to an API error and records the failed analysis.
func (s *HeapingService) fail(ctx context.Context, source string, start time.Time, err error) *apierrors.APIError {
	apiErr := toAPIError(err)

	outcome := infrastructure.OutcomeError
	if apiErr.StatusCode < 500 {
		outcome = infrastructure.OutcomeInvalidInput
	}
	s.metrics.RecordAnalysis(ctx, source, outcome, time.Since(start), 0, 0)
	infrastructure.RecordError(ctx, err)

	level := slog.LevelWarn
	if outcome == infrastructure.OutcomeError {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "Analysis failed",
		slog.String("source", source),
		slog.Int("status", apiErr.StatusCode),
		slog.String("error_code", apiErr.ErrorCode),
		slog.String("error", err.Error()))

	return apiErr
}

// countAbsent counts the per-sex index values that could not be computed.
func countAbsent(r demography.Result) int {
	n := 0
	for _, c := range []demography.CategoryResult{r.Whipple, r.Myers, r.Bachi} {
		for _, sex := range demography.Sexes {
			if !c.Get(sex).Valid {
				n++
			}
		}
	}
	return n
}
