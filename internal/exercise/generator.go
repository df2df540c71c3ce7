package exercise

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/madan-d/classmos/internal/llm"
)

// Generator produces quizzes for a lesson.
type Generator interface {
	// Generate returns the exercises for input. When generation fails the
	// single fallback exercise is returned alongside the cause.
	Generate(ctx context.Context, input Input) ([]Exercise, error)
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	logger   logrus.FieldLogger
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, logger logrus.FieldLogger) *LLMGenerator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LLMGenerator{provider: provider, config: cfg, logger: logger}
}

// quizOutput is the raw LLM response before validation.
type quizOutput struct {
	Exercises []Exercise `json:"exercises"`
}

// Generate asks the provider for a quiz, drops exercises that fail
// validation and trims the rest to the difficulty's count. If nothing
// usable comes back it returns Fallback with the cause.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) ([]Exercise, error) {
	purpose := llm.PurposeQuiz
	if input.Practice {
		purpose = llm.PurposePractice
	}
	ctx = llm.WithPurpose(ctx, purpose)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	log := g.logger.WithFields(logrus.Fields{
		"section":    input.SectionTitle,
		"difficulty": input.Difficulty,
	})

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		log.WithError(err).Warn("quiz generation failed, using fallback")
		return Fallback(), fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		log.WithError(err).Warn("quiz response unreadable, using fallback")
		return Fallback(), fmt.Errorf("failed to parse LLM response: %w", err)
	}

	out := make([]Exercise, 0, len(raw.Exercises))
	for i := range raw.Exercises {
		ex := raw.Exercises[i]
		if verr := g.validate(&ex); verr != nil {
			log.WithField("index", i).Debug(verr.Error())
			continue
		}
		out = append(out, ex)
	}
	if len(out) == 0 {
		log.Warn("no valid exercises generated, using fallback")
		return Fallback(), fmt.Errorf("no valid exercises in %d generated", len(raw.Exercises))
	}

	if n := Count(input.Difficulty); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// validate runs the configured validators in order.
func (g *LLMGenerator) validate(ex *Exercise) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(ex); verr != nil {
			return verr
		}
	}
	return nil
}

// Fallback is the placeholder quiz shown when generation fails.
func Fallback() []Exercise {
	return []Exercise{{
		Type:          MultipleChoice,
		Question:      "There was an error generating the quiz questions.",
		Concept:       fallbackConcept,
		Options:       []string{"Retry", "Cancel", "Ignore", "Report"},
		CorrectAnswer: "Retry",
		Explanation:   "Please try again later.",
	}}
}

// IsFallback reports whether exercises is the placeholder quiz.
func IsFallback(exercises []Exercise) bool {
	return len(exercises) == 1 && exercises[0].Concept == fallbackConcept &&
		exercises[0].Question == "There was an error generating the quiz questions."
}
