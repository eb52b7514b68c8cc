package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	userStatesTable    = "user_states"
	answerRecordsTable = "answer_records"
	llmEventsTable     = "llm_request_events"
)

// Column names shared by the SQL repositories.
const (
	colID            = "id"
	colUsername      = "username"
	colTopic         = "topic"
	colPendingTopic  = "pending_topic"
	colLastQuestion  = "last_question"
	colUpdatedAt     = "updated_at"
	colRecordID      = "record_id"
	colQuestion      = "question"
	colUserAnswer    = "user_answer"
	colCorrectAnswer = "correct_answer"
	colScore         = "score"
	colCreatedAt     = "created_at"
	colTimestamp     = "timestamp"
	colProvider      = "provider"
	colModel         = "model"
	colPurpose       = "purpose"
	colInputTokens   = "input_tokens"
	colOutputTokens  = "output_tokens"
	colLatencyMs     = "latency_ms"
	colSuccess       = "success"
	colErrorMessage  = "error_message"
	colRequestBody   = "request_body"
	colResponseBody  = "response_body"
)

var (
	userStatesColumns = []*schema.Column{
		{Name: colUsername, Type: field.TypeString, Unique: true},
		{Name: colTopic, Type: field.TypeString, Nullable: true},
		{Name: colPendingTopic, Type: field.TypeString, Nullable: true},
		{Name: colLastQuestion, Type: field.TypeString, Nullable: true},
		{Name: colUpdatedAt, Type: field.TypeTime},
	}
	userStatesSchema = &schema.Table{
		Name:       userStatesTable,
		Columns:    userStatesColumns,
		PrimaryKey: []*schema.Column{userStatesColumns[0]},
	}

	answerRecordsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colRecordID, Type: field.TypeString, Unique: true},
		{Name: colUsername, Type: field.TypeString},
		{Name: colTopic, Type: field.TypeString},
		{Name: colQuestion, Type: field.TypeString},
		{Name: colUserAnswer, Type: field.TypeString},
		{Name: colCorrectAnswer, Type: field.TypeString},
		{Name: colScore, Type: field.TypeInt},
		{Name: colCreatedAt, Type: field.TypeTime},
	}
	answerRecordsSchema = &schema.Table{
		Name:       answerRecordsTable,
		Columns:    answerRecordsColumns,
		PrimaryKey: []*schema.Column{answerRecordsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "answerrecord_username", Columns: []*schema.Column{answerRecordsColumns[2]}},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colTimestamp, Type: field.TypeTime},
		{Name: colProvider, Type: field.TypeString},
		{Name: colModel, Type: field.TypeString},
		{Name: colPurpose, Type: field.TypeString},
		{Name: colUsername, Type: field.TypeString, Default: ""},
		{Name: colInputTokens, Type: field.TypeInt},
		{Name: colOutputTokens, Type: field.TypeInt},
		{Name: colLatencyMs, Type: field.TypeInt64},
		{Name: colSuccess, Type: field.TypeBool},
		{Name: colErrorMessage, Type: field.TypeString, Default: ""},
		{Name: colRequestBody, Type: field.TypeString, Default: ""},
		{Name: colResponseBody, Type: field.TypeString, Default: ""},
	}
	llmEventsSchema = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[4]}},
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmEventsColumns[1]}},
			{Name: "llmrequestevent_username", Columns: []*schema.Column{llmEventsColumns[5]}},
		},
	}

	// tables lists every table auto-migrated by Open.
	tables = []*schema.Table{
		userStatesSchema,
		answerRecordsSchema,
		llmEventsSchema,
	}
)
