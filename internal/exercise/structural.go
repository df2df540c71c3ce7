package exercise

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Structural limits per exercise type.
const (
	choiceCount     = 4
	pairCount       = 4
	minSegments     = 3
	maxSegments     = 5
	maxQuestionLen  = 500
	maxConceptWords = 3
)

// StructuralValidator checks that the fields each exercise type relies on
// are present and well formed.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(ex *Exercise) *ValidationError {
	if strings.TrimSpace(ex.Question) == "" {
		return v.fail("question is empty")
	}
	if len(ex.Question) > maxQuestionLen {
		return v.fail("question exceeds 500 characters")
	}
	if strings.TrimSpace(ex.Concept) == "" {
		return v.fail("concept is empty")
	}

	switch ex.Type {
	case MultipleChoice:
		return v.choices(ex)
	case FillInTheBlank:
		if n := strings.Count(ex.Question, BlankMarker); n != 1 {
			return v.fail("fill in the blank question must contain exactly one [BLANK]")
		}
		return v.choices(ex)
	case Matching:
		if len(ex.Pairs) != pairCount {
			return v.fail("matching needs exactly 4 pairs")
		}
		for _, p := range ex.Pairs {
			if strings.TrimSpace(p.Item) == "" || strings.TrimSpace(p.Match) == "" {
				return v.fail("matching pair has an empty side")
			}
		}
		items := lo.Map(ex.Pairs, func(p Pair, _ int) string { return p.Item })
		if len(lo.Uniq(items)) != len(items) {
			return v.fail("matching items must be distinct")
		}
	case Ordering:
		if len(ex.Segments) < minSegments || len(ex.Segments) > maxSegments {
			return v.fail("ordering needs 3 to 5 segments")
		}
		if slices.Contains(ex.Segments, "") {
			return v.fail("ordering segment is empty")
		}
	default:
		return v.fail("unknown exercise type " + string(ex.Type))
	}
	return nil
}

func (v *StructuralValidator) choices(ex *Exercise) *ValidationError {
	if len(ex.Options) != choiceCount {
		return v.fail("exactly 4 options are required")
	}
	if len(lo.Uniq(ex.Options)) != len(ex.Options) {
		return v.fail("options must be distinct")
	}
	if !slices.Contains(ex.Options, ex.CorrectAnswer) {
		return v.fail("correct_answer is not one of the options")
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
}

// ConceptValidator trims concept tags longer than three words.
type ConceptValidator struct{}

func (v *ConceptValidator) Name() string { return "concept" }

func (v *ConceptValidator) Validate(ex *Exercise) *ValidationError {
	words := strings.Fields(ex.Concept)
	if len(words) > maxConceptWords {
		ex.Concept = strings.Join(words[:maxConceptWords], " ")
	}
	return nil
}
