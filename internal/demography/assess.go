package demography

// Grade is a qualitative reading of an index value.
type Grade string

const (
	GradeGood       Grade = "good"
	GradeAcceptable Grade = "acceptable"
	GradePoor       Grade = "poor"
	GradeVeryPoor   Grade = "very_poor"
	GradeUnknown    Grade = "unknown"
)

// CategoryGrades grades one per-sex index.
type CategoryGrades struct {
	Homme    Grade `json:"homme"`
	Femme    Grade `json:"femme"`
	Ensemble Grade `json:"ensemble"`
}

// Assessment grades the indices of a Result. Bachi has no conventional scale
// and is not graded.
type Assessment struct {
	Whipple CategoryGrades `json:"whipple"`
	Myers   CategoryGrades `json:"myers"`
	ICNU    Grade          `json:"icnu"`
}

// Assess grades r using the usual reading scales of each index.
func Assess(r Result) Assessment {
	return Assessment{
		Whipple: gradeEach(r.Whipple, WhippleGrade),
		Myers:   gradeEach(r.Myers, MyersGrade),
		ICNU:    ICNUGrade(r.ICNU.ICNU),
	}
}

func gradeEach(c CategoryResult, grade func(Value) Grade) CategoryGrades {
	return CategoryGrades{
		Homme:    grade(c.Homme),
		Femme:    grade(c.Femme),
		Ensemble: grade(c.Ensemble),
	}
}

// WhippleGrade: below 1.05 good, below 1.25 acceptable, otherwise poor.
func WhippleGrade(v Value) Grade {
	x, ok := v.Get()
	switch {
	case !ok:
		return GradeUnknown
	case x < 1.05:
		return GradeGood
	case x < 1.25:
		return GradeAcceptable
	default:
		return GradePoor
	}
}

// MyersGrade: below 5 good, below 10 acceptable, below 20 poor, otherwise very poor.
func MyersGrade(v Value) Grade {
	x, ok := v.Get()
	switch {
	case !ok:
		return GradeUnknown
	case x < 5:
		return GradeGood
	case x < 10:
		return GradeAcceptable
	case x < 20:
		return GradePoor
	default:
		return GradeVeryPoor
	}
}

// ICNUGrade: below 20 good, below 40 acceptable, otherwise poor.
func ICNUGrade(x float64) Grade {
	switch {
	case x < 20:
		return GradeGood
	case x < 40:
		return GradeAcceptable
	default:
		return GradePoor
	}
}
