package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/gainbrain/internal/llm"
)

// Purposes recorded on LLM request events.
const (
	PurposeQuestion = "question-gen"
	PurposeEvaluate = "answer-eval"
	PurposeRepair   = "answer-repair"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

func (g *LLMGenerator) GenerateQuestion(ctx context.Context, topic string) (string, error) {
	text, err := g.complete(ctx, PurposeQuestion, llm.Prompt{
		System:      buildQuestionSystem(topic),
		User:        questionUserTurn,
		Temperature: g.config.QuestionTemperature,
	})
	if err != nil {
		return "", &GenerationError{Op: "generate question", Err: err}
	}

	q := ParseQuestion(text)
	if q == "" {
		return "", &GenerationError{Op: "generate question", Err: ErrEmptyQuestion}
	}
	return q, nil
}

func (g *LLMGenerator) EvaluateAnswer(ctx context.Context, input EvaluateInput) (*Evaluation, error) {
	text, err := g.complete(ctx, PurposeEvaluate, llm.Prompt{
		System:      buildEvalSystem(input.Topic, input.Question),
		User:        input.Answer,
		Temperature: g.config.EvalTemperature,
	})
	if err != nil {
		return nil, &GenerationError{Op: "evaluate answer", Err: err}
	}

	if IsWellFormed(text) {
		eval := ParseEvaluation(text)
		return &eval, nil
	}

	eval, err := g.repair(ctx, input, text)
	if err != nil {
		return nil, &GenerationError{Op: "evaluate answer", Err: err}
	}
	eval.Repaired = true
	return eval, nil
}

// evaluationReply is the JSON shape requested by evaluationFormat.
type evaluationReply struct {
	Score         int    `json:"score"`
	CorrectAnswer string `json:"correct_answer"`
	NextQuestion  string `json:"next_question"`
}

// repair makes the single follow-up call for a malformed evaluation. The
// reply is requested as schema-constrained JSON; a reply that still misses
// the schema is parsed for labels instead of failing.
func (g *LLMGenerator) repair(ctx context.Context, input EvaluateInput, previous string) (*Evaluation, error) {
	text, err := g.complete(ctx, PurposeRepair, llm.Prompt{
		System:      repairSystem,
		User:        buildRepairTurn(input, previous),
		Format:      evaluationFormat,
		Temperature: g.config.EvalTemperature,
	})
	var fe *llm.FormatError
	switch {
	case errors.As(err, &fe):
		eval := ParseEvaluation(fe.Text)
		return &eval, nil
	case err != nil:
		return nil, err
	}

	var r evaluationReply
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		eval := ParseEvaluation(text)
		return &eval, nil
	}
	return &Evaluation{
		Score:         min(max(r.Score, MinScore), MaxScore),
		CorrectAnswer: r.CorrectAnswer,
		NextQuestion:  r.NextQuestion,
	}, nil
}

// complete sends one prompt and returns the reply text.
func (g *LLMGenerator) complete(ctx context.Context, purpose string, p llm.Prompt) (string, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, purpose)
	p.MaxTokens = g.config.MaxTokens

	c, err := g.provider.Complete(ctx, p)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return "", fmt.Errorf("%w: %w", ctxErr, err)
		}
		return "", err
	}
	return c.Text, nil
}
