package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gainbrain/internal/store"
)

func rec(topic string, score int) store.AnswerRecord {
	return store.AnswerRecord{Username: "alice", Topic: topic, Score: score}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		records []store.AnswerRecord
		want    Summary
	}{
		{"empty", nil, Summary{Total: 0, AverageScore: 0}},
		{"single", []store.AnswerRecord{rec("Biology", 7)}, Summary{Total: 1, AverageScore: 7}},
		{
			"mean",
			[]store.AnswerRecord{rec("Biology", 10), rec("Algebra", 5), rec("Biology", 0), rec("Art", 6)},
			Summary{Total: 4, AverageScore: 5.25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.records)
			assert.Equal(t, tt.want.Total, got.Total)
			assert.InDelta(t, tt.want.AverageScore, got.AverageScore, 1e-9)
		})
	}
}

func TestBreakdownByTopic_FirstAppearanceOrder(t *testing.T) {
	records := []store.AnswerRecord{
		rec("Zoology", 4),
		rec("Algebra", 9),
		rec("Zoology", 8),
		rec("", 3),
		rec("Algebra", 6),
	}

	got := BreakdownByTopic(records)
	require.Len(t, got, 3)

	assert.Equal(t, "Zoology", got[0].Topic)
	assert.Equal(t, 2, got[0].Count)
	assert.InDelta(t, 6.0, got[0].AverageScore, 1e-9)

	assert.Equal(t, "Algebra", got[1].Topic)
	assert.InDelta(t, 7.5, got[1].AverageScore, 1e-9)

	assert.Equal(t, UnknownTopic, got[2].Topic)
	assert.Equal(t, 1, got[2].Count)
	assert.InDelta(t, 3.0, got[2].AverageScore, 1e-9)
}

func TestBreakdownByTopic_BlankTopicIsUnknown(t *testing.T) {
	got := BreakdownByTopic([]store.AnswerRecord{rec("  ", 2), rec("", 4)})
	require.Len(t, got, 1)
	assert.Equal(t, UnknownTopic, got[0].Topic)
	assert.InDelta(t, 3.0, got[0].AverageScore, 1e-9)
}

func TestBreakdownByTopic_Empty(t *testing.T) {
	assert.Empty(t, BreakdownByTopic(nil))
}
