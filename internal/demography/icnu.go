package demography

import "math"

// ICNU computes the United Nations combined index on the whole table:
//
//	ICNU = A + B + 3C
//
// where A and B are the age-ratio scores of men and women and C is the
// sex-ratio score. Adjacency is positional: row i-1 and row i+1 are taken to be
// the ages immediately below and above row i. Components with nothing to
// average are 0.
func ICNU(t AgeTable) ICNUResult {
	a := AgeRatioScore(t, Homme)
	b := AgeRatioScore(t, Femme)
	c := SexRatioScore(t)

	return ICNUResult{
		IndiceA: round(a, ICNUPrecision),
		IndiceB: round(b, ICNUPrecision),
		IndiceC: round(c, ICNUPrecision),
		ICNU:    round(a+b+3*c, ICNUPrecision),
	}
}

// AgeRatioScore is the mean absolute deviation from 100 of the age ratios
//
//	100 × P[i] / ((P[i-1] + P[i+1]) / 2)
//
// over the interior rows of the table. Rows where P[i] or the neighbour
// average is not positive, or where any of the three cells did not parse, are
// skipped. The result is unrounded.
func AgeRatioScore(t AgeTable, s Sex) float64 {
	var sum float64
	var n int
	for i := 1; i < len(t)-1; i++ {
		if !t[i-1].Parsed(s) || !t[i].Parsed(s) || !t[i+1].Parsed(s) {
			continue
		}
		p := t[i].Value(s)
		avg := (t[i-1].Value(s) + t[i+1].Value(s)) / 2
		if avg <= 0 || p <= 0 {
			continue
		}
		sum += math.Abs(p/avg*100 - 100)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// SexRatioScore is the mean absolute difference between the sex ratios
// (100 × Homme / Femme) of consecutive rows. A row without women has no sex
// ratio and breaks the pairs it belongs to. The result is unrounded.
func SexRatioScore(t AgeTable) float64 {
	ratios := SexRatios(t)

	var sum float64
	var n int
	for i := 1; i < len(ratios); i++ {
		cur, okCur := ratios[i].Get()
		prev, okPrev := ratios[i-1].Get()
		if !okCur || !okPrev {
			continue
		}
		sum += math.Abs(cur - prev)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// SexRatios returns the number of men per hundred women for every row, absent
// where Femme is not positive or either cell did not parse.
func SexRatios(t AgeTable) []Value {
	out := make([]Value, len(t))
	for i, r := range t {
		if r.Parsed(Ensemble) && r.Femme > 0 {
			out[i] = Some(r.Homme / r.Femme * 100)
		}
	}
	return out
}
