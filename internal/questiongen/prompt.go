package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/gainbrain/internal/llm"
)

const questionUserTurn = "Ask me the next question."

// buildQuestionSystem fixes the assistant's role for question generation.
func buildQuestionSystem(topic string) string {
	return fmt.Sprintf(`You are a quiz bot on the topic "%s".

Rules:
- Ask exactly one short, specific question about the topic.
- Do not include the answer, hints or multiple-choice options.
- Respond with a single line in the form:
QUESTION: <question text>`, topic)
}

const evalFormat = `SCORE: <integer from 0 to 10>
CORRECT ANSWER: <the correct answer, one or two sentences>
NEXT QUESTION: <a new short question on the same topic>`

// buildEvalSystem demands the three-label evaluation format.
func buildEvalSystem(topic, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a quiz bot on the topic %q grading a user's answer.\n\n", topic)
	fmt.Fprintf(&b, "The question was:\n%s\n\n", question)
	b.WriteString("Grade the user's answer from 0 (wrong or empty) to 10 (fully correct). ")
	b.WriteString("Respond in exactly this format and nothing else:\n")
	b.WriteString(evalFormat)
	return b.String()
}

const repairSystem = `You reformat quiz grading output. Reply with a single JSON object and nothing else.`

// evaluationFormat constrains the repair reply.
var evaluationFormat = &llm.Format{
	Name:        "answer-evaluation",
	Description: "Grade of a quiz answer with the reference answer and a follow-up question.",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":    "integer",
				"minimum": MinScore,
				"maximum": MaxScore,
			},
			"correct_answer": map[string]any{"type": "string"},
			"next_question":  map[string]any{"type": "string"},
		},
		"required":             []any{"score", "correct_answer", "next_question"},
		"additionalProperties": false,
	},
}

// buildRepairTurn restates the original exchange and the response that
// failed to follow the label format, and asks for the grade as JSON.
func buildRepairTurn(input EvaluateInput, previous string) string {
	var b strings.Builder
	b.WriteString("The previous grading response did not follow the required format.\n\n")
	fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	fmt.Fprintf(&b, "Question: %s\n", input.Question)
	fmt.Fprintf(&b, "User answer: %s\n\n", input.Answer)
	fmt.Fprintf(&b, "Previous response:\n%s\n\n", strings.TrimSpace(previous))
	fmt.Fprintf(&b, "Grade the answer again. Reply with a JSON object with an integer \"score\" from %d to %d, ", MinScore, MaxScore)
	b.WriteString(`the "correct_answer" in one or two sentences and a new short "next_question" on the same topic.`)
	return b.String()
}
