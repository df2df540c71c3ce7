package exercise

import (
	"strings"

	"github.com/samber/lo"

	"github.com/madan-d/classmos/internal/progression"
)

// normalize folds case and surrounding whitespace so typed answers compare
// leniently.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Check grades one answer. Multiple choice and fill in the blank compare
// the choice with the correct answer. Matching needs every item mapped to
// its own match. Ordering compares the joined sentence, so segments with
// identical text may appear in either order.
func Check(ex Exercise, a Answer) bool {
	switch ex.Type {
	case MultipleChoice, FillInTheBlank:
		return a.Choice != "" && normalize(a.Choice) == normalize(ex.CorrectAnswer)
	case Matching:
		if len(ex.Pairs) == 0 || len(a.Pairs) != len(ex.Pairs) {
			return false
		}
		given := lo.MapEntries(a.Pairs, func(k, v string) (string, string) {
			return normalize(k), normalize(v)
		})
		return lo.EveryBy(ex.Pairs, func(p Pair) bool {
			return given[normalize(p.Item)] == normalize(p.Match)
		})
	case Ordering:
		if len(ex.Segments) == 0 || len(a.Order) != len(ex.Segments) {
			return false
		}
		return normalize(strings.Join(a.Order, " ")) == normalize(strings.Join(ex.Segments, " "))
	}
	return false
}

// Score grades a whole quiz. Missing answers count as wrong. Concepts are
// every distinct concept in the quiz, attempted or not, in quiz order.
func Score(exercises []Exercise, answers []Answer) (score, total int, concepts []string) {
	for i, ex := range exercises {
		if i < len(answers) && Check(ex, answers[i]) {
			score++
		}
	}
	concepts = lo.Uniq(lo.FilterMap(exercises, func(ex Exercise, _ int) (string, bool) {
		return ex.Concept, ex.Concept != ""
	}))
	return score, len(exercises), concepts
}

// Result builds the session result for a graded quiz.
func Result(exercises []Exercise, answers []Answer, practice bool) progression.SessionResult {
	score, total, concepts := Score(exercises, answers)
	return ResultFromScore(score, total, concepts, practice)
}

// ResultFromScore builds a session result from an already graded score.
// Any failed session, practice included, reports the flat consolation
// experience and recovers nothing. A passed practice session recovers a
// life.
func ResultFromScore(score, total int, concepts []string, practice bool) progression.SessionResult {
	raw := progression.RawExperience(score, practice)
	passed := progression.Grade(score, total, raw, practice).Passed
	if !passed {
		raw = progression.FailedSessionExperience
	}
	return progression.SessionResult{
		Score:           score,
		TotalQuestions:  total,
		CoveredConcepts: concepts,
		RawExperience:   raw,
		LifeRecovered:   practice && passed,
	}
}
