package domain

import (
	"ageheap/internal/demography"
)

// AnalysisResponse is the result of one analysis. Success, Resultats and Data
// keep the names browser clients of the upload form read.
type AnalysisResponse struct {
	Success    bool                  `json:"success"`
	Resultats  demography.Result     `json:"resultats"`
	Data       demography.AgeTable   `json:"data"`
	Assessment demography.Assessment `json:"assessment"`
	Warnings   []Warning             `json:"warnings"`
}

// WarningCode identifies a data-quality warning
type WarningCode string

const (
	// WarningNonContiguousAges: consecutive rows are not consecutive ages, so
	// ICNU compares rows that are not age neighbours.
	WarningNonContiguousAges WarningCode = "non_contiguous_ages"

	// WarningDroppedRows: rows without a numeric age were left out.
	WarningDroppedRows WarningCode = "dropped_rows"

	// WarningUnparsedPopulation: Homme or Femme cells were not numeric. They
	// count as zero in sums and are left out of ICNU comparisons.
	WarningUnparsedPopulation WarningCode = "unparsed_population"

	// WarningCalculatorFailed: some indices could not be computed; the others
	// are still reported.
	WarningCalculatorFailed WarningCode = "calculator_failed"
)

// Warning flags input that was analysed but deserves attention.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}
