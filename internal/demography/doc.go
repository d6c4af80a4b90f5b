// Package demography computes age-heaping indices from a population table
// split by sex.
//
// Age heaping is the tendency of respondents to round reported ages to
// preferred digits, usually 0 and 5. The package implements four standard
// measures of it:
//
//   - Whipple (ages 23-62): concentration on ages ending in 0 or 5.
//   - Myers (ages 10-89): blended deviation of every terminal digit from 10%.
//   - Bachi (ages 10-70): excess of ages ending in 0 or 5 over their
//     theoretical share, in percent.
//   - ICNU, the United Nations combined index (all rows): A + B + 3C from
//     the age ratios of men (A) and women (B) and the sex ratios (C).
//
// # Input
//
// Callers normalize raw cells with Normalize, which drops rows whose age is not
// numeric and derives the Ensemble column. Rows keep input order. ICNU compares
// each row with its neighbours by position, so the table should list
// consecutive ages without gaps; CheckContiguity reports where it does not.
// A population cell that is blank or not numeric counts as 0 in the sums but
// is flagged on its row, and ICNU leaves it out of every ratio it would enter.
//
// # Absent values
//
// Whipple, Myers and Bachi return an absent Value for a category whose
// population in range is zero. ICNU components fall back to 0 instead. The two
// policies are kept distinct on purpose and surface as null and 0 in JSON.
//
// # Usage
//
//	table := demography.Normalize(rows)
//	res, err := demography.Compute(ctx, table)
//	if err != nil {
//	    // FailedIndices(err) names the failed calculators; res holds the others
//	}
//	grades := demography.Assess(res)
//
// The package performs no I/O and holds no state.
package demography
