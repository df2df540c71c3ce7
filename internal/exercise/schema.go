package exercise

import "github.com/madan-d/classmos/internal/llm"

// QuizSchema defines the JSON schema for quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz-exercises",
	Description: "A short quiz generated from a lesson's reference text",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"exercises": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type":        "string",
							"enum":        []any{string(MultipleChoice), string(FillInTheBlank), string(Matching), string(Ordering)},
							"description": "The type of exercise.",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "Instruction for the learner, e.g. 'Select the correct answer', 'Complete the sentence', 'Match the pairs', 'Order the sentence'.",
						},
						"concept": map[string]any{
							"type":        "string",
							"description": "The specific topic tag. Max 3 words.",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Short explanation of the solution.",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "For MULTIPLE_CHOICE: 4 choices. For FILL_IN_THE_BLANK: the correct word plus 3 distractors. Empty otherwise.",
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "For MULTIPLE_CHOICE and FILL_IN_THE_BLANK: the correct string. Empty otherwise.",
						},
						"pairs": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"item":  map[string]any{"type": "string"},
									"match": map[string]any{"type": "string"},
								},
								"required":             []any{"item", "match"},
								"additionalProperties": false,
							},
							"description": "For MATCHING only: 4 pairs of related concepts (term to definition). Empty otherwise.",
						},
						"segments": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "For ORDERING only: a sentence or process broken into 3-5 parts in the CORRECT order. Empty otherwise.",
						},
					},
					"required":             []any{"type", "question", "concept", "explanation", "options", "correct_answer", "pairs", "segments"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"exercises"},
		"additionalProperties": false,
	},
}
