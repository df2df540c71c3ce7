package progression

import (
	"math"
	"slices"
)

// RatingK is the Elo K-factor.
const RatingK = 32

// ExpectedScore is the logistic expectation of a learner rated r against
// an opponent rated d.
func ExpectedScore(r, d float64) float64 {
	return 1 / (1 + math.Pow(10, (d-r)/400))
}

// UpdateSkillRating applies one session to the rating. The returned history
// is a fresh slice with the new rating appended. An empty history is seeded
// with the starting rating.
func UpdateSkillRating(rating float64, history []float64, score, totalQuestions int, difficulty Difficulty) (newRating float64, newHistory []float64, delta float64) {
	actual := 0.0
	if totalQuestions > 0 {
		actual = float64(score) / float64(totalQuestions)
	}
	expected := ExpectedScore(rating, difficulty.ReferenceRating())
	delta = math.Round(RatingK * (actual - expected))
	newRating = math.Max(0, rating+delta)

	if len(history) == 0 {
		newHistory = []float64{StartingRating}
	} else {
		newHistory = slices.Clone(history)
	}
	newHistory = append(newHistory, newRating)
	return newRating, newHistory, newRating - rating
}
