package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ageheap/internal/demography"
	"ageheap/pkg/contracts/domain"
)

// Sheet names of the workbook export.
const (
	SheetIndices = "Indices"
	SheetData    = "Donnees"
)

// WriteXLSX writes resp as a workbook with the indices on SheetIndices and
// the normalized age table on SheetData.
func WriteXLSX(w io.Writer, resp *domain.AnalysisResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetIndices); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetData); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeRows(f, SheetIndices, indicesRows(resp), bold, 1, 6, 10); err != nil {
		return err
	}
	if err := writeRows(f, SheetData, dataRows(resp.Data), bold, 1); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetIndices, "A", "A", 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeRows writes rows from A1 down; rows listed in headerRows (1-based) are
// set in bold.
func writeRows(f *excelize.File, sheet string, rows [][]any, style int, headerRows ...int) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	for _, r := range headerRows {
		if r > len(rows) || len(rows[r-1]) == 0 {
			continue
		}
		first, _ := excelize.CoordinatesToCellName(1, r)
		last, _ := excelize.CoordinatesToCellName(len(rows[r-1]), r)
		if err := f.SetCellStyle(sheet, first, last, style); err != nil {
			return fmt.Errorf("failed to style %s row %d: %w", sheet, r, err)
		}
	}
	return nil
}

func indicesRows(resp *domain.AnalysisResponse) [][]any {
	r, a := resp.Resultats, resp.Assessment

	perSex := func(label string, c demography.CategoryResult) []any {
		return []any{label, cellValue(c.Homme), cellValue(c.Femme), cellValue(c.Ensemble)}
	}
	grades := func(label string, g demography.CategoryGrades) []any {
		return []any{label, string(g.Homme), string(g.Femme), string(g.Ensemble)}
	}

	return [][]any{
		{"Indice", "Homme", "Femme", "Ensemble"},
		perSex("Whipple", r.Whipple),
		perSex("Myers", r.Myers),
		perSex("Bachi", r.Bachi),
		{},
		{"Appréciation", "Homme", "Femme", "Ensemble"},
		grades("Whipple", a.Whipple),
		grades("Myers", a.Myers),
		{},
		{"ICNU", "Valeur", "Appréciation"},
		{"Indice A", r.ICNU.IndiceA},
		{"Indice B", r.ICNU.IndiceB},
		{"Indice C", r.ICNU.IndiceC},
		{"ICNU", r.ICNU.ICNU, string(a.ICNU)},
	}
}

func dataRows(t demography.AgeTable) [][]any {
	rows := make([][]any, 0, len(t)+1)
	rows = append(rows, []any{"Age", "Homme", "Femme", "Ensemble"})
	for _, row := range t {
		rows = append(rows, []any{row.Age, row.Homme, row.Femme, row.Ensemble})
	}
	return rows
}
