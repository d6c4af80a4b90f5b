package demography

// Age ranges and rounding precision of each index.
const (
	WhippleMinAge = 23
	WhippleMaxAge = 62
	MyersMinAge   = 10
	MyersMaxAge   = 89
	BachiMinAge   = 10
	BachiMaxAge   = 70

	WhipplePrecision = 4
	MyersPrecision   = 7 // matches the reference spreadsheet
	BachiPrecision   = 4
	ICNUPrecision    = 4
)

// CategoryResult holds one index value per sex category.
type CategoryResult struct {
	Homme    Value `json:"homme"`
	Femme    Value `json:"femme"`
	Ensemble Value `json:"ensemble"`
}

// Get returns the value for a category.
func (c CategoryResult) Get(s Sex) Value {
	switch s {
	case Homme:
		return c.Homme
	case Femme:
		return c.Femme
	default:
		return c.Ensemble
	}
}

func (c *CategoryResult) set(s Sex, v Value) {
	switch s {
	case Homme:
		c.Homme = v
	case Femme:
		c.Femme = v
	default:
		c.Ensemble = v
	}
}

// perSex evaluates fn for every category.
func perSex(fn func(Sex) Value) CategoryResult {
	var out CategoryResult
	for _, s := range Sexes {
		out.set(s, fn(s))
	}
	return out
}

// ICNUResult is the UN combined index and its three components. Unlike the
// per-sex indices its values are never absent: an empty series yields 0.
type ICNUResult struct {
	IndiceA float64 `json:"indice_a"`
	IndiceB float64 `json:"indice_b"`
	IndiceC float64 `json:"indice_c"`
	ICNU    float64 `json:"icnu"`
}

// Result aggregates the four indices computed from one table.
type Result struct {
	Whipple CategoryResult `json:"whipple"`
	Myers   CategoryResult `json:"myers"`
	Bachi   CategoryResult `json:"bachi"`
	ICNU    ICNUResult     `json:"icnu"`
}

// endsInZeroOrFive reports whether an age carries a preferred terminal digit.
func endsInZeroOrFive(age int) bool {
	d := age % 10
	return d == 0 || d == 5
}
