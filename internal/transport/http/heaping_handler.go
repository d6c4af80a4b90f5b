package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ageheap/internal/errors"
	"ageheap/internal/exporter"
	"ageheap/internal/middleware"
	"ageheap/internal/spreadsheet"
	"ageheap/internal/validation"
	api "ageheap/pkg/contracts/api/v1"
	"ageheap/pkg/contracts/domain"
)

// UploadField is the multipart field carrying the workbook.
const UploadField = "file"

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// HeapingHandler handles the analysis endpoints with RFC 7807 errors
type HeapingHandler struct {
	service      HeapingServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewHeapingHandler creates a new heaping handler
func NewHeapingHandler(service HeapingServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *HeapingHandler {
	return &HeapingHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "heaping_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes, mounted under /api
func (h *HeapingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/upload", h.Upload)
	r.With(middleware.ContentTypeValidator(h.errorHandler, "application/json")).
		Post("/indices", h.Indices)
	r.Post("/export", h.Export)

	return r
}

// Upload handles POST /upload and POST /api/upload. The optional query
// parameter sheet selects a worksheet.
func (h *HeapingHandler) Upload(w http.ResponseWriter, r *http.Request) {
	resp, _, err := h.analyzeUpload(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, resp)
}

// Indices handles POST /api/indices with a JSON age table
func (h *HeapingHandler) Indices(w http.ResponseWriter, r *http.Request) {
	resp, err := h.analyzeRows(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, resp)
}

// Export handles POST /api/export?format=xlsx|csv|json. The body is either a
// multipart upload or a JSON age table; the results come back as a download.
func (h *HeapingHandler) Export(w http.ResponseWriter, r *http.Request) {
	query := api.ExportRequest{
		Format: r.URL.Query().Get("format"),
		Sheet:  r.URL.Query().Get("sheet"),
	}
	if err := h.validator.ValidateStruct(query); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format := exporter.FormatXLSX
	if query.Format != "" {
		format = exporter.Format(query.Format)
	}

	var (
		resp   *domain.AnalysisResponse
		source string
		err    error
	)
	if isJSON(r) {
		resp, err = h.analyzeRows(r)
	} else {
		resp, source, err = h.analyzeUpload(r)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Buffer so that a failed export still gets a problem response.
	var buf bytes.Buffer
	if err := exporter.Write(&buf, format, resp); err != nil {
		h.logger.ErrorContext(r.Context(), "Export failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.NewInternalError("export failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": format.FileName(validation.SecureFilename(source)),
	}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// analyzeUpload reads the multipart workbook and runs the analysis. It
// returns the client file name for naming downloads.
func (h *HeapingHandler) analyzeUpload(r *http.Request) (*domain.AnalysisResponse, string, error) {
	file, header, err := h.formFile(r)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	opts := spreadsheet.Options{SheetName: r.URL.Query().Get("sheet")}
	resp, err := h.service.ProcessUploadWithOptions(r.Context(), header.Filename, file, header.Size, opts)
	if err != nil {
		return nil, "", err
	}
	return resp, header.Filename, nil
}

func (h *HeapingHandler) analyzeRows(r *http.Request) (*domain.AnalysisResponse, error) {
	var req api.IndicesRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	return h.service.ProcessRows(r.Context(), req.Rows)
}

// formFile returns the uploaded workbook. A request without the file field
// is reported as an invalid upload; an oversized body keeps its
// *http.MaxBytesError so that it is answered with 413.
func (h *HeapingHandler) formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, nil, err
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary),
			errors.Is(err, io.EOF):
			return nil, nil, noFile(err)
		default:
			return nil, nil, apierrors.InvalidRequestWithError(fmt.Errorf("invalid multipart body: %w", err))
		}
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		// A file input left empty arrives as a part without file name,
		// which the form parser files under the plain values.
		if _, ok := r.MultipartForm.Value[UploadField]; ok {
			return nil, nil, apierrors.Wrap(validation.ErrEmptyFilename, http.StatusBadRequest,
				apierrors.CodeInvalidUpload, validation.ErrEmptyFilename.Error())
		}
		return nil, nil, noFile(err)
	}
	return file, header, nil
}

func noFile(cause error) error {
	apiErr := apierrors.Wrap(validation.ErrNoFile, http.StatusBadRequest, apierrors.CodeInvalidUpload, validation.ErrNoFile.Error())
	apiErr.Details = cause.Error()
	return apiErr
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
