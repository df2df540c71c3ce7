package progression

// PassPercentage is the minimum session percentage that counts as a pass.
const PassPercentage = 70

// Experience awarded per session on top of the per-answer reward.
const (
	lessonBaseExperience   = 10
	practiceBaseExperience = 5
	perCorrectExperience   = 2

	// FailedSessionExperience is the raw experience a caller reports for any
	// session that ended in failure, practice included.
	FailedSessionExperience = 5
)

// Verdict is the graded outcome of a session.
type Verdict struct {
	Passed              bool    `json:"passed"`
	EffectiveExperience int     `json:"effective_experience"`
	Percentage          float64 `json:"percentage"`
}

// Grade turns raw session outcomes into a verdict. A failing non-practice
// session keeps a quarter of the raw experience. A zero question count
// grades as a 0% fail.
func Grade(score, totalQuestions, rawExperience int, practice bool) Verdict {
	pct := percentage(score, totalQuestions)
	passed := pct >= PassPercentage
	eff := rawExperience
	if !passed && !practice {
		eff = rawExperience / 4
	}
	return Verdict{
		Passed:              passed,
		EffectiveExperience: max(0, eff),
		Percentage:          pct,
	}
}

// RawExperience is the default experience offered for a completed session.
func RawExperience(score int, practice bool) int {
	base := lessonBaseExperience
	if practice {
		base = practiceBaseExperience
	}
	return score*perCorrectExperience + base
}

func percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(score) / float64(total)
}
