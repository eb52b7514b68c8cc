package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/gainbrain/internal/stats"
)

const (
	msgWelcome = "👋 Welcome to GainBrain!\n\nSend me any topic you want to be quizzed on, for example \"Photosynthesis\" or \"World War II\"."

	msgHelp = `📚 How it works:
• Send a topic to start a quiz.
• Answer each question in your own words; I score it from 0 to 10.
• /topic <name> switches to a new topic.
• /profile shows your stats.
• /clear deletes your history and topic.`

	msgTopicUsage       = "✏️ Usage: /topic <name>, e.g. /topic Algebra"
	msgEnterTopic       = "✏️ Send me a topic to start a quiz."
	msgPleaseConfirm    = "⚠️ Please confirm or cancel the topic change using the buttons above."
	msgNothingToConfirm = "There is no topic change waiting for confirmation."
	msgTopicCancelled   = "❎ Topic change cancelled. Send me a new topic to continue."
	msgStatsCleared     = "🗑 Your history and topic have been cleared. Send me a topic to start again."
	msgGenerationFailed = "❌ Sorry, I could not process that right now. Please try again."
	msgNoHistory        = "You have not answered any questions yet."
)

func questionReply(topic, question string) string {
	return fmt.Sprintf("📖 Topic: %s\n\n❓ %s", topic, question)
}

func topicCommittedNoQuestion(topic string) string {
	return fmt.Sprintf("✅ Topic changed to %s, but I could not generate a question. Send any message to get one.", topic)
}

func confirmPrompt(active, pending string) string {
	return fmt.Sprintf("🔄 Switch topic from %s to %s?", active, pending)
}

func evaluationReply(score int, correct, next string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 Score: %d/10", score)
	if correct != "" {
		fmt.Fprintf(&b, "\n💬 Correct answer: %s", correct)
	}
	if next != "" {
		fmt.Fprintf(&b, "\n\n➡️ %s", next)
	} else {
		b.WriteString("\n\nSend any message for the next question.")
	}
	return b.String()
}

func profileReply(user, topic string, s stats.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n", user)
	if topic != "" {
		fmt.Fprintf(&b, "📖 Current topic: %s\n", topic)
	} else {
		b.WriteString("📖 Current topic: none\n")
	}
	fmt.Fprintf(&b, "📝 Answers: %d\n", s.Total)
	fmt.Fprintf(&b, "⭐ Average score: %.1f/10", s.AverageScore)
	return b.String()
}

func breakdownReply(rows []stats.TopicAverage) string {
	if len(rows) == 0 {
		return msgNoHistory
	}
	var b strings.Builder
	b.WriteString("📊 Average score by topic:")
	for _, r := range rows {
		fmt.Fprintf(&b, "\n• %s: %.1f/10 (%d)", r.Topic, r.AverageScore, r.Count)
	}
	return b.String()
}

var (
	profileButtons = []Button{
		{Label: "📊 Detailed stats", Action: ActionDetailedStats},
		{Label: "🔄 Change topic", Action: ActionChangeTopic},
		{Label: "🗑 Clear stats", Action: ActionClearStats},
	}
	confirmButtons = []Button{
		{Label: "✅ Yes", Action: ActionConfirmTopic},
		{Label: "❌ No", Action: ActionCancelTopic},
	}
)
