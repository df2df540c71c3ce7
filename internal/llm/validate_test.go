package llm

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func quizSchema() *Schema {
	return &Schema{
		Name: "test-quiz",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"exercises": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"type":          map[string]any{"type": "string", "enum": []any{"MULTIPLE_CHOICE", "FILL_IN_THE_BLANK", "MATCHING", "ORDERING"}},
							"question":      map[string]any{"type": "string"},
							"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							"correctAnswer": map[string]any{"type": "string"},
						},
						"required": []any{"type", "question"},
					},
				},
			},
			"required": []any{"exercises"},
		},
	}
}

func courseSchema() *Schema {
	return &Schema{
		Name: "test-course",
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
							"title":    map[string]any{"type": "string"},
							"sections": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
						},
						"required": []any{"title", "sections"},
					},
				},
			},
			"required": []any{"units"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		raw    string
		ok     bool
	}{
		{"quiz", quizSchema(), `{"exercises":[{"type":"MULTIPLE_CHOICE","question":"Hola?","options":["Hello","Bye"],"correctAnswer":"Hello"}]}`, true},
		{"quiz without optional fields", quizSchema(), `{"exercises":[{"type":"ORDERING","question":"Order it"}]}`, true},
		{"quiz unknown type", quizSchema(), `{"exercises":[{"type":"ESSAY","question":"Write"}]}`, false},
		{"quiz no exercises", quizSchema(), `{"exercises":[]}`, false},
		{"quiz wrong option type", quizSchema(), `{"exercises":[{"type":"MULTIPLE_CHOICE","question":"q","options":[1,2]}]}`, false},
		{"course one unit", courseSchema(), `{"courseTitle":"Spanish","units":[{"title":"Greetings","sections":[{}]}]}`, true},
		{"course two units", courseSchema(), `{"units":[{"title":"A","sections":[]},{"title":"B","sections":[]}]}`, false},
		{"course missing sections", courseSchema(), `{"units":[{"title":"A"}]}`, false},
		{"malformed", courseSchema(), `{units:}`, false},
		{"empty", quizSchema(), ``, false},
		{"no schema", nil, `anything`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if tt.ok {
				if err != nil {
					t.Errorf("validateResponse(%s) = %v, want nil", tt.raw, err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("validateResponse(%s) = %v, want *ErrInvalidResponse", tt.raw, err)
			}
			if inv.Schema != tt.schema.Name {
				t.Errorf("ErrInvalidResponse.Schema = %q, want %q", inv.Schema, tt.schema.Name)
			}
			if !strings.Contains(err.Error(), tt.schema.Name) {
				t.Errorf("error %q does not name schema %q", err, tt.schema.Name)
			}
		})
	}
}

func TestValidateResponse_BadSchema(t *testing.T) {
	bad := &Schema{Name: "test-broken", Definition: map[string]any{"type": 12}}
	err := validateResponse(bad, json.RawMessage(`{}`))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("validateResponse(broken schema) = %v, want *ErrInvalidResponse", err)
	}
}
