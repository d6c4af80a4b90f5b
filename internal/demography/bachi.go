package demography

// bachiExpectedShare is the share of ages 10-70 ending in 0 or 5 under a
// uniform distribution: 13 of 61 ages.
const bachiExpectedShare = 13.0 / 61.0

// Bachi computes the Bachi index over ages 10 to 70 as the percentage by which
// the observed population at ages ending in 0 or 5 exceeds its theoretical
// value.
func Bachi(t AgeTable) CategoryResult {
	rows := t.Between(BachiMinAge, BachiMaxAge)

	return perSex(func(s Sex) Value {
		var observed, total float64
		for _, r := range rows {
			v := r.Value(s)
			total += v
			if endsInZeroOrFive(r.Age) {
				observed += v
			}
		}
		if total == 0 {
			return None()
		}

		theoretical := bachiExpectedShare * total
		if theoretical <= 0 {
			return None()
		}
		return Some(round((observed-theoretical)/theoretical*100, BachiPrecision))
	})
}
