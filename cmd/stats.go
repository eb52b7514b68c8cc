package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/gainbrain/internal/stats"
	"github.com/abhisek/gainbrain/internal/store"
	"github.com/abhisek/gainbrain/internal/ui/theme"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <user>",
	Short: "Show a user's answer statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		repo, closeAll, err := openForUser(ctx, cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		user := args[0]
		state, err := repo.GetState(ctx, user)
		if err != nil {
			return fmt.Errorf("read state: %w", err)
		}
		records, err := repo.ListAnswers(ctx, user)
		if err != nil {
			return fmt.Errorf("read answers: %w", err)
		}

		fmt.Println(renderStats(user, state.Topic, records))
		return nil
	},
}

func renderStats(user, topic string, records []store.AnswerRecord) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Stats for "+user) + "\n\n")

	if topic == "" {
		topic = "(none)"
	}
	b.WriteString(theme.Label.Render("Topic    ") + theme.Value.Render(topic) + "\n")

	if len(records) == 0 {
		b.WriteString("\n" + theme.Hint.Render("No answers recorded yet."))
		return theme.Card.Render(b.String())
	}

	sum := stats.Summarize(records)
	b.WriteString(theme.Label.Render("Answers  ") + theme.Value.Render(fmt.Sprint(sum.Total)) + "\n")
	b.WriteString(theme.Label.Render("Average  ") + theme.FormatScore(sum.AverageScore) + "\n\n")

	breakdown := stats.BreakdownByTopic(records)
	width := 0
	for _, t := range breakdown {
		width = max(width, len([]rune(t.Topic)))
	}
	for i, t := range breakdown {
		pad := strings.Repeat(" ", width-len([]rune(t.Topic)))
		fmt.Fprintf(&b, "%s%s  %s  %s  %s",
			t.Topic, pad,
			theme.Bar(t.AverageScore, 20),
			theme.FormatScore(t.AverageScore),
			theme.Label.Render(fmt.Sprintf("(%d)", t.Count)))
		if i < len(breakdown)-1 {
			b.WriteString("\n")
		}
	}
	return theme.Card.Render(b.String())
}
