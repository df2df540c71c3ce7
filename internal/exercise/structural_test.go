package exercise

import "testing"

func validMCQ() Exercise {
	return Exercise{
		Type:          MultipleChoice,
		Question:      "How do you say hello?",
		Concept:       "Greetings",
		Explanation:   "Hola means hello.",
		Options:       []string{"Hola", "Adiós", "Gracias", "Perdón"},
		CorrectAnswer: "Hola",
	}
}

func TestStructuralValidator(t *testing.T) {
	v := &StructuralValidator{}

	tests := []struct {
		name    string
		mutate  func(*Exercise)
		wantErr bool
	}{
		{"valid multiple choice", func(e *Exercise) {}, false},
		{"empty question", func(e *Exercise) { e.Question = "  " }, true},
		{"empty concept", func(e *Exercise) { e.Concept = "" }, true},
		{"three options", func(e *Exercise) { e.Options = e.Options[:3] }, true},
		{"duplicate options", func(e *Exercise) { e.Options[1] = "Hola" }, true},
		{"answer not offered", func(e *Exercise) { e.CorrectAnswer = "Buenas" }, true},
		{"unknown type", func(e *Exercise) { e.Type = "ESSAY" }, true},
		{"valid fill in", func(e *Exercise) {
			e.Type = FillInTheBlank
			e.Question = "[BLANK] means hello."
		}, false},
		{"fill in without blank", func(e *Exercise) { e.Type = FillInTheBlank }, true},
		{"fill in with two blanks", func(e *Exercise) {
			e.Type = FillInTheBlank
			e.Question = "[BLANK] and [BLANK]."
		}, true},
		{"valid matching", func(e *Exercise) {
			e.Type = Matching
			e.Pairs = []Pair{{"uno", "one"}, {"dos", "two"}, {"tres", "three"}, {"cuatro", "four"}}
		}, false},
		{"matching with three pairs", func(e *Exercise) {
			e.Type = Matching
			e.Pairs = []Pair{{"uno", "one"}, {"dos", "two"}, {"tres", "three"}}
		}, true},
		{"matching duplicate items", func(e *Exercise) {
			e.Type = Matching
			e.Pairs = []Pair{{"uno", "one"}, {"uno", "two"}, {"tres", "three"}, {"cuatro", "four"}}
		}, true},
		{"matching empty side", func(e *Exercise) {
			e.Type = Matching
			e.Pairs = []Pair{{"uno", ""}, {"dos", "two"}, {"tres", "three"}, {"cuatro", "four"}}
		}, true},
		{"valid ordering", func(e *Exercise) {
			e.Type = Ordering
			e.Segments = []string{"Me", "llamo", "Sam"}
		}, false},
		{"ordering too short", func(e *Exercise) {
			e.Type = Ordering
			e.Segments = []string{"Me", "llamo"}
		}, true},
		{"ordering too long", func(e *Exercise) {
			e.Type = Ordering
			e.Segments = []string{"a", "b", "c", "d", "e", "f"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := validMCQ()
			tt.mutate(&ex)
			err := v.Validate(&ex)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConceptValidatorTrims(t *testing.T) {
	ex := validMCQ()
	ex.Concept = "Basic Spanish greeting words"
	if err := (&ConceptValidator{}).Validate(&ex); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Concept != "Basic Spanish greeting" {
		t.Errorf("Concept = %q, want %q", ex.Concept, "Basic Spanish greeting")
	}
}
