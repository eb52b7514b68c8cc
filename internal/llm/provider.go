package llm

import "context"

// Provider sends one system/user exchange to a hosted model.
type Provider interface {
	// Complete returns the model's reply to p. When p.Format is set the
	// reply text is a JSON document that satisfies p.Format.Schema.
	Complete(ctx context.Context, p Prompt) (*Completion, error)

	// ModelID returns the model identifier requests are sent to.
	ModelID() string
}

// Prompt is a single-turn request: a system instruction and one user turn.
type Prompt struct {
	System string
	User   string

	// Format, when non-nil, asks for structured JSON output using the
	// vendor's native mechanism. The reply is validated before it is
	// returned.
	Format *Format

	MaxTokens   int
	Temperature float64
}

// Completion is a model reply.
type Completion struct {
	Text       string
	Usage      Usage
	Model      string
	StopReason StopReason
}

// StopReason is a vendor-neutral reason for the end of generation.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Usage counts tokens for a single call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}
