package demography

import "math"

// Myers computes Myers' blended index over ages 10 to 89: half the sum, over
// terminal digits 0-9, of the absolute distance between the digit's share of
// the population (in percent) and 10.
func Myers(t AgeTable) CategoryResult {
	rows := t.Between(MyersMinAge, MyersMaxAge)

	return perSex(func(s Sex) Value {
		var total float64
		var byDigit [10]float64
		for _, r := range rows {
			v := r.Value(s)
			total += v
			byDigit[r.Age%10] += v
		}
		if total == 0 {
			return None()
		}

		var deviations float64
		for _, p := range byDigit {
			share := p / total * 100
			deviations += math.Abs(share - 10)
		}
		return Some(round(deviations/2, MyersPrecision))
	})
}
