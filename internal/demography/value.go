package demography

import (
	"bytes"
	"encoding/json"
	"math"
)

// Value is an optional index value. Calculators return an absent Value when
// the population they divide by is zero; absent values encode as JSON null.
type Value struct {
	Float64 float64
	Valid   bool
}

// Some returns a present value.
func Some(v float64) Value {
	return Value{Float64: v, Valid: true}
}

// None returns an absent value.
func None() Value {
	return Value{}
}

// Get returns the value and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.Float64, v.Valid
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = None()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// round rounds x to the given number of decimal places the way numpy.around
// does (scale, round half to even, unscale), which is what the reference
// spreadsheets were checked against.
func round(x float64, places int) float64 {
	scale := math.Pow10(places)
	return math.RoundToEven(x*scale) / scale
}
