package questiongen

// EvaluateInput is the question/answer pair being graded.
type EvaluateInput struct {
	Topic    string
	Question string
	Answer   string
}

// Evaluation is the parsed result of grading one answer.
type Evaluation struct {
	// Score is in the range 0-10. Missing or non-numeric scores are 0.
	Score int

	// CorrectAnswer is the reference answer, empty when the model omitted it.
	CorrectAnswer string

	// NextQuestion is the follow-up question, empty when omitted.
	NextQuestion string

	// Repaired reports whether a repair round-trip was needed.
	Repaired bool
}

const (
	MinScore = 0
	MaxScore = 10
)
