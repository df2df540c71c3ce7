package exercise

import "github.com/madan-d/classmos/internal/progression"

// Type identifies how an exercise is answered.
type Type string

const (
	MultipleChoice Type = "MULTIPLE_CHOICE"
	FillInTheBlank Type = "FILL_IN_THE_BLANK"
	Matching       Type = "MATCHING"
	Ordering       Type = "ORDERING"
)

// BlankMarker is the placeholder a fill in the blank question must contain
// exactly once.
const BlankMarker = "[BLANK]"

const fallbackConcept = "Error"

// Exercise is one generated question.
type Exercise struct {
	Type        Type   `json:"type"`
	Question    string `json:"question"`
	Concept     string `json:"concept"`
	Explanation string `json:"explanation"`

	// Options holds four choices for multiple choice and the correct word
	// plus three distractors for fill in the blank.
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`

	// Pairs is set for matching exercises.
	Pairs []Pair `json:"pairs,omitempty"`

	// Segments is set for ordering exercises, in the correct order.
	Segments []string `json:"segments,omitempty"`
}

// Pair is one item and its match.
type Pair struct {
	Item  string `json:"item"`
	Match string `json:"match"`
}

// Answer is a learner's response to one exercise. Only the field for the
// exercise type is read.
type Answer struct {
	Choice string            `json:"choice,omitempty"`
	Pairs  map[string]string `json:"pairs,omitempty"`
	Order  []string          `json:"order,omitempty"`
}

// Input holds the context needed to generate a quiz.
type Input struct {
	SectionTitle       string
	SectionDescription string
	Topic              string
	Difficulty         progression.Difficulty

	// Practice marks a review run on a completed lesson.
	Practice bool
}

// InputFor builds the generation input for a lesson. Practice runs on a
// completed lesson are always Hard.
func InputFor(l progression.Lesson, practice bool) Input {
	d := l.Difficulty
	if practice {
		d = progression.Hard
	}
	return Input{
		SectionTitle:       l.SectionTitle,
		SectionDescription: l.SectionDescription,
		Topic:              l.Topic,
		Difficulty:         d,
		Practice:           practice,
	}
}

// Count returns how many exercises a quiz of difficulty d contains.
func Count(d progression.Difficulty) int {
	switch d {
	case progression.Easy:
		return 3
	case progression.Hard:
		return 7
	default:
		return 5
	}
}
