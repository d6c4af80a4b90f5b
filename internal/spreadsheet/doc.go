// Package spreadsheet reads age tables from Excel workbooks.
//
// Workbooks are decoded with excelize, which handles the Office Open XML
// format (.xlsx). Legacy binary .xls files fail with ErrUnreadableWorkbook.
//
//	sheet, err := spreadsheet.ReadFile("pyramide.xlsx", spreadsheet.Options{})
//	if err != nil {
//	    return err
//	}
//	raw, err := sheet.AgeRows() // errors.Is(err, spreadsheet.ErrMissingColumns)
//	table := demography.Normalize(raw)
package spreadsheet
