package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"ageheap/internal/demography"
	"ageheap/pkg/contracts/domain"
)

// CSVHeader is the header line of the CSV export.
var CSVHeader = []string{"index", "category", "value"}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes the indices of resp as flat index,category,value records.
func WriteCSV(w io.Writer, resp *domain.AnalysisResponse) error {
	return WriteCSVWithOptions(w, resp, WriteOptions{})
}

// WriteCSVWithOptions is WriteCSV with options.
func WriteCSVWithOptions(w io.Writer, resp *domain.AnalysisResponse, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, record := range csvRecords(resp.Resultats) {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func csvRecords(r demography.Result) [][]string {
	var records [][]string

	for _, idx := range []struct {
		name   string
		values demography.CategoryResult
	}{
		{demography.IndexWhipple, r.Whipple},
		{demography.IndexMyers, r.Myers},
		{demography.IndexBachi, r.Bachi},
	} {
		for _, sex := range demography.Sexes {
			records = append(records, []string{idx.name, string(sex), formatValue(idx.values.Get(sex))})
		}
	}

	icnu := r.ICNU
	records = append(records,
		[]string{demography.IndexICNU, "indice_a", formatFloat(icnu.IndiceA)},
		[]string{demography.IndexICNU, "indice_b", formatFloat(icnu.IndiceB)},
		[]string{demography.IndexICNU, "indice_c", formatFloat(icnu.IndiceC)},
		[]string{demography.IndexICNU, "icnu", formatFloat(icnu.ICNU)},
	)

	return records
}
