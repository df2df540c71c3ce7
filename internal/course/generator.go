package course

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/madan-d/classmos/internal/llm"
	"github.com/madan-d/classmos/internal/progression"
)

// Document is the source material a unit is generated from.
type Document struct {
	MIMEType string
	Data     []byte
}

// StructureSchema constrains generated courses to a single unit whose
// sections carry cheat sheet descriptions.
var StructureSchema = &llm.Schema{
	Name:        "course-structure",
	Description: "A single learning unit derived from a document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"courseTitle": map[string]any{"type": "string"},
			"units": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":       map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
						"sections": map[string]any{
							"type":     "array",
							"minItems": 1,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"title": map[string]any{"type": "string"},
									"description": map[string]any{
										"type":        "string",
										"description": "Detailed cheat-sheet content. Definitions, formulas, dates, key facts.",
									},
								},
								"required":             []any{"title", "description"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"title", "description", "sections"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"courseTitle", "units"},
		"additionalProperties": false,
	},
}

const documentPrompt = `Analyze the provided document and create a single, comprehensive learning unit for: %q (Language: %s).

REQUIREMENTS:
1. Generate exactly ONE Unit. Do not create multiple units.
2. The Unit Title should reflect the main topic of the document.
3. Divide the content into logical Sections within this single Unit.

CRITICAL:
- Do NOT generate a list of topics.
- The 'description' for each SECTION is the most important field. It must be a detailed "Cheat Sheet" containing actual facts, dates, formulas, vocab, or definitions from the source document.
- The questions will be generated purely from this description later, so make it comprehensive.`

// Generator turns documents into course structures with an LLM.
type Generator struct {
	provider  llm.Provider
	logger    logrus.FieldLogger
	maxTokens int
}

// NewGenerator creates a Generator.
func NewGenerator(provider llm.Provider, logger logrus.FieldLogger) *Generator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Generator{provider: provider, logger: logger, maxTokens: 8192}
}

// FromDocument generates one unit of sections from doc. Text documents are
// inlined by providers that cannot read binary input; binary documents
// need a provider with native document support.
func (g *Generator) FromDocument(ctx context.Context, doc Document, subject, language string) (progression.Structure, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeCourse)
	if len(doc.Data) == 0 {
		return progression.Structure{}, fmt.Errorf("document is empty")
	}
	if language == "" {
		language = "English"
	}

	req := llm.Request{
		Messages: []llm.Message{{
			Role:        llm.RoleUser,
			Content:     fmt.Sprintf(documentPrompt, subject, language),
			Attachments: []llm.Attachment{{MIMEType: doc.MIMEType, Data: doc.Data}},
		}},
		Schema:    StructureSchema,
		MaxTokens: g.maxTokens,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return progression.Structure{}, fmt.Errorf("generate course: %w", err)
	}

	var s progression.Structure
	if err := json.Unmarshal(resp.Content, &s); err != nil {
		return progression.Structure{}, fmt.Errorf("parse course: %w", err)
	}
	if len(s.Units) != 1 {
		return progression.Structure{}, fmt.Errorf("expected exactly one unit, got %d", len(s.Units))
	}
	if strings.TrimSpace(s.CourseTitle) == "" {
		s.CourseTitle = subject
	}
	if err := Validate(s); err != nil {
		return progression.Structure{}, err
	}

	g.logger.WithFields(logrus.Fields{
		"subject":  subject,
		"unit":     s.Units[0].Title,
		"sections": len(s.Units[0].Sections),
	}).Info("generated course unit")
	return s, nil
}

// DetectMIMEType guesses a document's type from its name and content,
// preferring the extension for the text formats providers can inline.
func DetectMIMEType(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	case ".json":
		return "application/json"
	}
	mime, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return mime
}
