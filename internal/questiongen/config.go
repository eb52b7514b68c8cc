package questiongen

import "time"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for each LLM response.
	MaxTokens int

	// QuestionTemperature is used when asking for a new question.
	QuestionTemperature float64

	// EvalTemperature is used when grading answers and repairing output.
	EvalTemperature float64

	// Timeout bounds every single call to the reasoning service.
	// Expiry is reported as a GenerationError.
	Timeout time.Duration
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:           512,
		QuestionTemperature: 0.8,
		EvalTemperature:     0.2,
		Timeout:             30 * time.Second,
	}
}
