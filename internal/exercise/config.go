package exercise

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated exercise. An exercise
	// failing any of them is dropped.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ConceptValidator{},
		},
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}
