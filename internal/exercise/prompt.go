package exercise

import (
	"fmt"
	"strings"

	"github.com/madan-d/classmos/internal/progression"
)

const systemPrompt = `You write short quizzes for a gamified learning app.

TYPE RULES:
1. MULTIPLE_CHOICE: Standard question. 'correct_answer' is the answer string. 'options' contains 4 choices.
2. FILL_IN_THE_BLANK: 'question' must be a sentence with exactly one '[BLANK]' placeholder (e.g. "The sky is [BLANK]."). 'correct_answer' is the missing word. 'options' contains the correct word + 3 distractors.
3. MATCHING: 'pairs' must contain 4 pairs. 'question' should be "Match the following". Leave options and correct_answer empty.
4. ORDERING: 'segments' must contain a sentence broken into 3-5 parts in the CORRECT order. 'question' should be "Arrange the sentence". Leave options and correct_answer empty.

VARIATION RULES:
- Vary the exercise types according to the difficulty distribution.
- Ensure questions are complete sentences.`

// mix describes the type distribution and Bloom's taxonomy focus of a band.
type mix struct {
	distribution string
	bloom        string
}

var mixes = map[progression.Difficulty]mix{
	progression.Easy: {
		distribution: "Mix of 70% MULTIPLE_CHOICE, 30% MATCHING (simple pairs).",
		bloom:        "REMEMBER & UNDERSTAND (Recall facts and basic concepts: define, duplicate, list, memorize, repeat, state).",
	},
	progression.Medium: {
		distribution: "Mix of 40% MULTIPLE_CHOICE, 40% FILL_IN_THE_BLANK, 20% MATCHING.",
		bloom:        "APPLY & ANALYZE (Use information in new situations; Draw connections among ideas: implement, solve, differentiate, organize, relate).",
	},
	progression.Hard: {
		distribution: "Mix of 30% FILL_IN_THE_BLANK, 30% ORDERING (complex sentences), 20% MATCHING, 20% MULTIPLE_CHOICE.",
		bloom:        "EVALUATE & CREATE (Justify a stand or decision; Produce new or original work: appraise, argue, defend, judge, design, assemble, construct).",
	},
}

var balancedMix = mix{
	distribution: "Balanced mix of all types.",
	bloom:        "Mix of all Bloom's Taxonomy levels.",
}

func mixFor(d progression.Difficulty) mix {
	if m, ok := mixes[d]; ok {
		return m
	}
	return balancedMix
}

// buildUserMessage renders the quiz request for one lesson.
func buildUserMessage(input Input) string {
	m := mixFor(input.Difficulty)
	topic := input.Topic
	if topic == "" {
		topic = "General"
	}

	var b strings.Builder
	b.WriteString("Generate a quiz based *only* on the provided reference text.\n\n")
	fmt.Fprintf(&b, "REFERENCE TEXT:\n%q\n\n", input.SectionDescription)
	b.WriteString("METADATA:\n")
	fmt.Fprintf(&b, "- Section Context: %s\n", input.SectionTitle)
	fmt.Fprintf(&b, "- Lesson Focus: %s\n", topic)
	fmt.Fprintf(&b, "- Difficulty: %s\n", input.Difficulty)
	fmt.Fprintf(&b, "- Bloom's Level: %s\n", m.bloom)
	fmt.Fprintf(&b, "- Quantity: Generate exactly %d exercises.\n\n", Count(input.Difficulty))
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString(m.distribution)
	return b.String()
}
