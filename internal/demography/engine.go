package demography

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrCalculatorFailed wraps a panic raised inside one calculator.
var ErrCalculatorFailed = errors.New("index calculation failed")

// Index names as they appear in results.
const (
	IndexWhipple = "whipple"
	IndexMyers   = "myers"
	IndexBachi   = "bachi"
	IndexICNU    = "icnu"
)

// CalculatorError reports the failure of one index. The other indices of the
// same Compute call are unaffected.
type CalculatorError struct {
	Index string
	Err   error
}

func (e *CalculatorError) Error() string { return e.Index + ": " + e.Err.Error() }

func (e *CalculatorError) Unwrap() error { return e.Err }

// FailedIndices returns the indices a Compute error reports as failed by a
// calculator fault, in calculator order. Cancellation is not a fault.
func FailedIndices(err error) []string {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else if err != nil {
		errs = []error{err}
	}

	var names []string
	for _, e := range errs {
		var ce *CalculatorError
		if errors.As(e, &ce) && errors.Is(ce, ErrCalculatorFailed) {
			names = append(names, ce.Index)
		}
	}
	return names
}

// calculator fills one index of res from t.
type calculator struct {
	index string
	fill  func(t AgeTable, res *Result)
}

var calculators = []calculator{
	{IndexWhipple, func(t AgeTable, res *Result) { res.Whipple = Whipple(t) }},
	{IndexMyers, func(t AgeTable, res *Result) { res.Myers = Myers(t) }},
	{IndexBachi, func(t AgeTable, res *Result) { res.Bachi = Bachi(t) }},
	{IndexICNU, func(t AgeTable, res *Result) { res.ICNU = ICNU(t) }},
}

// Compute runs the four calculators concurrently over t. The table is only
// read. A calculator that fails leaves its zero value in the result and
// contributes a *CalculatorError to the returned error; the other indices are
// still filled in.
func Compute(ctx context.Context, t AgeTable) (Result, error) {
	return compute(ctx, t, calculators)
}

func compute(ctx context.Context, t AgeTable, calcs []calculator) (Result, error) {
	var (
		res  Result
		g    errgroup.Group
		errs = make([]error, len(calcs))
	)

	// Plain group: one failing calculator must not cancel the others. Each
	// calculator writes a distinct field of res.
	for slot, c := range calcs {
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					errs[slot] = &CalculatorError{Index: c.index, Err: fmt.Errorf("%w: %v", ErrCalculatorFailed, rec)}
				}
			}()
			if err := ctx.Err(); err != nil {
				errs[slot] = &CalculatorError{Index: c.index, Err: err}
				return nil
			}
			c.fill(t, &res)
			return nil
		})
	}

	_ = g.Wait()
	return res, errors.Join(errs...)
}

// Gap marks a row whose age does not follow the previous row's age by one.
type Gap struct {
	Position    int `json:"position"`
	PreviousAge int `json:"previous_age"`
	Age         int `json:"age"`
}

// CheckContiguity returns every position where consecutive rows are not
// consecutive ages. ICNU still pairs rows by position; callers use the gaps to
// warn that its adjacency comparisons span missing or reordered ages.
func CheckContiguity(t AgeTable) []Gap {
	var gaps []Gap
	for i := 1; i < len(t); i++ {
		if t[i].Age != t[i-1].Age+1 {
			gaps = append(gaps, Gap{Position: i, PreviousAge: t[i-1].Age, Age: t[i].Age})
		}
	}
	return gaps
}
