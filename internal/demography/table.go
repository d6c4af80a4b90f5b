package demography

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Sex identifies a population column of the age table.
type Sex string

const (
	Homme    Sex = "homme"
	Femme    Sex = "femme"
	Ensemble Sex = "ensemble"
)

// Sexes lists the categories every per-sex index is reported for, in output order.
var Sexes = []Sex{Homme, Femme, Ensemble}

// Row is one age of the normalized table. A population cell that did not
// parse holds 0 and is flagged; ICNU leaves it out of every comparison.
type Row struct {
	Age      int     `json:"Age"`
	Homme    float64 `json:"Homme"`
	Femme    float64 `json:"Femme"`
	Ensemble float64 `json:"Ensemble"`

	HommeUnparsed bool `json:"-"`
	FemmeUnparsed bool `json:"-"`
}

// Parsed reports whether the population of the category came from a numeric
// cell. Ensemble needs both.
func (r Row) Parsed(s Sex) bool {
	switch s {
	case Homme:
		return !r.HommeUnparsed
	case Femme:
		return !r.FemmeUnparsed
	default:
		return !r.HommeUnparsed && !r.FemmeUnparsed
	}
}

// Value returns the population of the row for the given category.
func (r Row) Value(s Sex) float64 {
	switch s {
	case Homme:
		return r.Homme
	case Femme:
		return r.Femme
	default:
		return r.Ensemble
	}
}

// AgeTable is the normalized input of every calculator. Rows keep input
// order; ICNU treats consecutive rows as consecutive ages without checking.
type AgeTable []Row

// UnparsedCells counts the Homme and Femme cells that did not parse.
func (t AgeTable) UnparsedCells() int {
	var n int
	for _, r := range t {
		if r.HommeUnparsed {
			n++
		}
		if r.FemmeUnparsed {
			n++
		}
	}
	return n
}

// Between returns the rows whose age lies in [lo, hi].
func (t AgeTable) Between(lo, hi int) AgeTable {
	out := make(AgeTable, 0, len(t))
	for _, r := range t {
		if r.Age >= lo && r.Age <= hi {
			out = append(out, r)
		}
	}
	return out
}

// RawRow holds the cells of one spreadsheet or request row before
// normalization. Cells may be strings, numbers or nil.
type RawRow struct {
	Age   any
	Homme any
	Femme any
}

// Normalize builds an AgeTable from raw rows. Rows whose age is not numeric
// are dropped; ages are truncated to integers; population cells that do not
// parse count as zero and are flagged on the row; Ensemble is Homme + Femme.
// Normalize never fails.
func Normalize(rows []RawRow) AgeTable {
	table := make(AgeTable, 0, len(rows))
	for _, raw := range rows {
		age, ok := toFloat(raw.Age)
		if !ok {
			continue
		}
		homme, hommeOK := toFloat(raw.Homme)
		femme, femmeOK := toFloat(raw.Femme)
		table = append(table, Row{
			Age:           int(age),
			Homme:         homme,
			Femme:         femme,
			Ensemble:      homme + femme,
			HommeUnparsed: !hommeOK,
			FemmeUnparsed: !femmeOK,
		})
	}
	return table
}

// toFloat converts a cell to a finite float64.
func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
