package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/gainbrain/internal/store"
)

func TestRenderEventList(t *testing.T) {
	out := renderEventList([]store.LLMEvent{
		{
			ID:        7,
			Timestamp: time.Now(),
			LLMRequestEventData: store.LLMRequestEventData{
				Purpose: "answer-repair", Username: "alice", Model: "gpt-4o-mini",
				InputTokens: 120, OutputTokens: 40, LatencyMs: 900, Success: true,
			},
		},
		{ID: 8, LLMRequestEventData: store.LLMRequestEventData{Purpose: "question-gen", Model: "mock"}},
	})

	for _, want := range []string{"User", "Purpose", "alice", "answer-repair", "gpt-4o-mini", "120", "900", "question-gen", "✓", "✗"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderEvent(t *testing.T) {
	out := renderEvent(&store.LLMEvent{
		ID: 3,
		LLMRequestEventData: store.LLMRequestEventData{
			Provider: "openai", Model: "gpt-4o-mini", Purpose: "answer-eval", Username: "bob",
			ErrorMessage: "rate limited: 429",
			RequestBody:  "[user]\nChlorophyll\n",
		},
	})

	assert.Contains(t, out, "LLM call #3")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "answer-eval")
	assert.Contains(t, out, "rate limited: 429")
	assert.Contains(t, out, "Chlorophyll")
	assert.Contains(t, out, "(not captured)")
}

func TestRenderUsage(t *testing.T) {
	out := renderUsage(
		[]store.PurposeUsage{
			{Purpose: "question-gen", Calls: 2, InputTokens: 100, OutputTokens: 20, AvgLatencyMs: 500},
			{Purpose: "answer-eval", Calls: 1, InputTokens: 50, OutputTokens: 30},
		},
		[]store.ModelUsage{
			{Model: "gpt-4o-mini", Calls: 3, InputTokens: 150, OutputTokens: 50},
			{Model: "mock", Calls: 1},
		},
	)

	assert.Contains(t, out, "Usage by purpose")
	assert.Contains(t, out, "question-gen")
	assert.Contains(t, out, "200") // 150 + 50 tokens in total
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: mock")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
