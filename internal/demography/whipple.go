package demography

// Whipple computes the Whipple index over ages 23 to 62:
//
//	Iw = 5 × P(ages ending in 0 or 5) / P(all ages)
//
// A category whose population in range is not positive yields an absent value.
func Whipple(t AgeTable) CategoryResult {
	rows := t.Between(WhippleMinAge, WhippleMaxAge)

	return perSex(func(s Sex) Value {
		var heaped, total float64
		for _, r := range rows {
			v := r.Value(s)
			total += v
			if endsInZeroOrFive(r.Age) {
				heaped += v
			}
		}
		if total <= 0 {
			return None()
		}
		return Some(round(heaped*5/total, WhipplePrecision))
	})
}
