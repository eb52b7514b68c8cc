// Package stats derives quiz performance summaries from answer history.
package stats

import (
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/gainbrain/internal/store"
)

// UnknownTopic labels records that carry no topic.
const UnknownTopic = "Unknown"

// Summary is the overall performance across all answers.
type Summary struct {
	Total        int
	AverageScore float64
}

// TopicAverage is the mean score for one topic.
type TopicAverage struct {
	Topic        string
	Count        int
	AverageScore float64
}

// Summarize counts records and averages their scores. An empty history has
// an average of 0.
func Summarize(records []store.AnswerRecord) Summary {
	return Summary{
		Total:        len(records),
		AverageScore: meanScore(records),
	}
}

// BreakdownByTopic groups records by topic and averages each group. Groups
// appear in the order their topic was first seen.
func BreakdownByTopic(records []store.AnswerRecord) []TopicAverage {
	groups := lo.GroupBy(records, topicOf)
	order := lo.Uniq(lo.Map(records, func(r store.AnswerRecord, _ int) string {
		return topicOf(r)
	}))

	return lo.Map(order, func(topic string, _ int) TopicAverage {
		g := groups[topic]
		return TopicAverage{
			Topic:        topic,
			Count:        len(g),
			AverageScore: meanScore(g),
		}
	})
}

func topicOf(r store.AnswerRecord) string {
	if strings.TrimSpace(r.Topic) == "" {
		return UnknownTopic
	}
	return r.Topic
}

func meanScore(records []store.AnswerRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := lo.SumBy(records, func(r store.AnswerRecord) int { return r.Score })
	return float64(sum) / float64(len(records))
}
