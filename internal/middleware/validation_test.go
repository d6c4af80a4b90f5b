package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "ageheap/internal/errors"
	api "ageheap/pkg/contracts/api/v1"
)

func TestValidator_DecodeJSON(t *testing.T) {
	v := NewValidator(testLogger())

	tests := []struct {
		name       string
		body       string
		wantCode   string
		wantFields []string
	}{
		{name: "valid", body: `{"rows":[{"age":0,"homme":10,"femme":12},{"age":1,"homme":9,"femme":11}]}`},
		{name: "empty body", body: ``, wantCode: apierrors.CodeInvalidRequest},
		{name: "malformed json", body: `{"rows":[`, wantCode: apierrors.CodeInvalidRequest},
		{name: "no rows", body: `{"rows":[]}`, wantCode: apierrors.CodeValidationFailed, wantFields: []string{"rows"}},
		{name: "missing rows", body: `{}`, wantCode: apierrors.CodeValidationFailed, wantFields: []string{"rows"}},
		{
			name:       "bad rows",
			body:       `{"rows":[{"age":10,"homme":1,"femme":1},{"homme":1,"femme":1},{"age":200,"homme":-1,"femme":0}]}`,
			wantCode:   apierrors.CodeValidationFailed,
			wantFields: []string{"rows[1].age", "rows[2].age", "rows[2].homme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/indices", strings.NewReader(tt.body))

			var body api.IndicesRequest
			err := v.DecodeJSON(req, &body)

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Len(t, body.Rows, 2)
				return
			}

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

			if tt.wantFields != nil {
				details, ok := apiErr.Details.(apierrors.ValidationErrors)
				require.True(t, ok)
				var fields []string
				for _, fe := range details.Errors {
					fields = append(fields, fe.Field)
				}
				assert.Equal(t, tt.wantFields, fields)
			}
		})
	}
}

func TestValidator_ValidateStruct_Messages(t *testing.T) {
	v := NewValidator(testLogger())

	err := v.ValidateStruct(api.ExportRequest{Format: "pdf"})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	details := apiErr.Details.(apierrors.ValidationErrors)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "format", details.Errors[0].Field)
	assert.Equal(t, "format must be one of: json, csv, xlsx", details.Errors[0].Message)

	assert.NoError(t, v.ValidateStruct(api.ExportRequest{}))
}

func TestValidator_DecodeJSON_TooLarge(t *testing.T) {
	v := NewValidator(testLogger())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/indices", strings.NewReader(`{"rows":[{"age":1,"homme":1,"femme":1}]}`))
	req.Body = http.MaxBytesReader(rec, req.Body, 10)

	var body api.IndicesRequest
	err := v.DecodeJSON(req, &body)

	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, err, &maxErr)
}

func TestContentTypeValidator(t *testing.T) {
	problems := apierrors.NewErrorHandler(testLogger(), false)
	h := ContentTypeValidator(problems, "application/json")(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{name: "json", method: http.MethodPost, contentType: "application/json; charset=utf-8", wantStatus: http.StatusOK},
		{name: "form", method: http.MethodPost, contentType: "multipart/form-data", wantStatus: http.StatusUnsupportedMediaType},
		{name: "missing", method: http.MethodPost, wantStatus: http.StatusUnsupportedMediaType},
		{name: "get skipped", method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/indices", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
