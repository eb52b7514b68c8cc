package store

import (
	"context"
	"time"
)

// UserState is the persisted quiz state of one user. Empty strings mean
// the field is absent.
type UserState struct {
	Username     string
	Topic        string
	PendingTopic string
	LastQuestion string
	UpdatedAt    time.Time
}

// AnswerRecord is one evaluated question/answer cycle. Records are
// append-only; they are never updated, only bulk-deleted per user.
type AnswerRecord struct {
	ID            string
	Username      string
	Topic         string
	Question      string
	UserAnswer    string
	CorrectAnswer string
	Score         int
	Timestamp     time.Time
}

// UserRepo stores the per-user topic, pending topic and last question.
// Setting a field to "" clears it.
type UserRepo interface {
	// GetState returns the full state row; a user never seen before yields
	// a zero UserState with only Username set.
	GetState(ctx context.Context, username string) (UserState, error)

	GetTopic(ctx context.Context, username string) (string, error)
	SetTopic(ctx context.Context, username, topic string) error

	GetPendingTopic(ctx context.Context, username string) (string, error)
	SetPendingTopic(ctx context.Context, username, topic string) error

	GetLastQuestion(ctx context.Context, username string) (string, error)
	SetLastQuestion(ctx context.Context, username, question string) error
}

// AnswerRepo is the append-only answer history.
type AnswerRepo interface {
	AppendAnswer(ctx context.Context, rec AnswerRecord) error

	// ListAnswers returns the user's records in insertion order.
	ListAnswers(ctx context.Context, username string) ([]AnswerRecord, error)

	// ClearAnswers deletes every record of the user.
	ClearAnswers(ctx context.Context, username string) error
}

// QuizRepo is everything the quiz engine persists.
type QuizRepo interface {
	UserRepo
	AnswerRepo
}

// QueryOpts filters event queries. Zero values match everything.
type QueryOpts struct {
	Limit    int // max results (0 = unlimited)
	Purpose  string
	Username string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Username     string // quiz user the call was made for, if any
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM calls by purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls by model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and reports reasoning-service calls.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns the most recent events first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns nil when no event has the id.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
