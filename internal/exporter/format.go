package exporter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ageheap/internal/demography"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// FileName returns the download name of the results of source.
func (f Format) FileName(source string) string {
	base := strings.TrimSuffix(source, fileExt(source))
	if base == "" {
		base = "analyse"
	}
	return fmt.Sprintf("resultats_%s.%s", base, f)
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// formatFloat formats a float64 with the shortest exact representation
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatValue formats an index value; absent values become an empty cell
func formatValue(v demography.Value) string {
	f, ok := v.Get()
	if !ok {
		return ""
	}
	return formatFloat(f)
}

// cellValue returns an index value for a spreadsheet cell; nil leaves it blank
func cellValue(v demography.Value) any {
	f, ok := v.Get()
	if !ok {
		return nil
	}
	return f
}
