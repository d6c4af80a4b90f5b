package http

import (
	"context"
	"io"

	"ageheap/internal/spreadsheet"
	api "ageheap/pkg/contracts/api/v1"
	"ageheap/pkg/contracts/domain"
)

// HeapingServiceInterface defines the analysis operations used by the handlers
type HeapingServiceInterface interface {
	ProcessUploadWithOptions(ctx context.Context, filename string, r io.Reader, size int64, opts spreadsheet.Options) (*domain.AnalysisResponse, error)
	ProcessRows(ctx context.Context, rows []api.AgeRowRequest) (*domain.AnalysisResponse, error)
}
