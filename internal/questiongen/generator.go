package questiongen

import "context"

// Generator produces quiz questions and grades free-text answers using a
// reasoning service.
type Generator interface {
	// GenerateQuestion returns a new question for topic. The text is never
	// empty on success.
	GenerateQuestion(ctx context.Context, topic string) (string, error)

	// EvaluateAnswer grades input.Answer against input.Question. A response
	// that misses required labels triggers exactly one repair request whose
	// result is parsed best-effort. Only a failed call returns an error.
	EvaluateAnswer(ctx context.Context, input EvaluateInput) (*Evaluation, error)
}
