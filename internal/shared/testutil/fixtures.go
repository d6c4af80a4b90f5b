// Package testutil provides test fixtures: census workbooks built with
// excelize, multipart upload bodies and a recording slog handler.
package testutil

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the first sheet of a new excelize workbook.
const DefaultSheet = "Sheet1"

// Pyramid returns a header row and ages 0..n-1 with a declining population
// and heaping on ages ending in 0.
func Pyramid(n int) [][]any {
	rows := [][]any{{"Age", "Homme", "Femme"}}
	for a := 0; a < n; a++ {
		homme, femme := 1000-5*a, 1100-6*a
		if a%10 == 0 {
			homme += 300
			femme += 400
		}
		rows = append(rows, []any{a, homme, femme})
	}
	return rows
}

func newWorkbook(t *testing.T, sheet string, rows [][]any) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	if sheet != DefaultSheet {
		require.NoError(t, f.SetSheetName(DefaultSheet, sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	return f
}

// Workbook returns an xlsx whose first sheet holds rows from A1.
func Workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	return WorkbookWithSheet(t, DefaultSheet, rows)
}

// WorkbookWithSheet is Workbook with a named sheet.
func WorkbookWithSheet(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()

	f := newWorkbook(t, sheet, rows)
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// SaveWorkbook writes the workbook to path, creating parent directories.
func SaveWorkbook(t *testing.T, path, sheet string, rows [][]any) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, WorkbookWithSheet(t, sheet, rows), 0o644))
	return path
}

// MultipartFile builds a form body with one file part and returns it with
// its Content-Type. A nil content writes an unrelated field instead, so that
// the form has no file at all.
func MultipartFile(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if content != nil {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, w.WriteField("other", "value"))
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}
