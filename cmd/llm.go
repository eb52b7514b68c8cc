package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/gainbrain/internal/llm"
	"github.com/abhisek/gainbrain/internal/store"
	"github.com/abhisek/gainbrain/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect question, grading and repair calls to the reasoning service",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		user, _ := cmd.Flags().GetString("user")

		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			list, err := events.QueryLLMEvents(ctx, store.QueryOpts{Limit: limit, Purpose: purpose, Username: user})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(list) == 0 {
				fmt.Println(theme.Hint.Render("No LLM calls recorded."))
				return nil
			}
			lipgloss.Println(renderEventList(list))
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			e, err := events.GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			lipgloss.Println(renderEvent(e))
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per quiz purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			byPurpose, err := events.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Println(theme.Hint.Render("No LLM usage recorded yet."))
				return nil
			}
			byModel, err := events.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			lipgloss.Println(renderUsage(byPurpose, byModel))
			return nil
		})
	},
}

// withEvents opens the SQLite store, which always holds the LLM event log.
func withEvents(cmd *cobra.Command, fn func(context.Context, store.EventRepo) error) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(cmd.Context(), s.EventRepo())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(theme.Primary)
			}
			return s
		})
}

func renderEventList(events []store.LLMEvent) string {
	t := newTable("ID", "Time", "User", "Purpose", "Model", "In", "Out", "Ms", "OK")
	for _, e := range events {
		user := e.Username
		if user == "" {
			user = "-"
		}
		t.Row(
			strconv.Itoa(e.ID),
			e.Timestamp.Local().Format(timeLayout),
			truncate(user, 20),
			e.Purpose,
			truncate(e.Model, 28),
			strconv.Itoa(e.InputTokens),
			strconv.Itoa(e.OutputTokens),
			strconv.FormatInt(e.LatencyMs, 10),
			okMark(e.Success),
		)
	}
	return t.String()
}

func okMark(ok bool) string {
	if ok {
		return lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	}
	return lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
}

func renderEvent(e *store.LLMEvent) string {
	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(theme.Label.Render(fmt.Sprintf("%-9s", label)) + " " + value + "\n")
	}

	b.WriteString(theme.Title.Render(fmt.Sprintf("LLM call #%d", e.ID)) + "\n\n")
	field("Time", e.Timestamp.Local().Format(timeLayout))
	field("User", orNone(e.Username))
	field("Purpose", e.Purpose)
	field("Provider", e.Provider)
	field("Model", e.Model)
	field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
	field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
	field("Success", okMark(e.Success))
	if e.ErrorMessage != "" {
		field("Error", lipgloss.NewStyle().Foreground(theme.Error).Render(e.ErrorMessage))
	}

	section := func(title, body string) {
		b.WriteString("\n" + theme.Title.Render(title) + "\n")
		if body == "" {
			body = theme.Hint.Render("(not captured)")
		}
		b.WriteString(theme.Card.Render(body) + "\n")
	}
	section("Prompt", e.RequestBody)
	section("Reply", e.ResponseBody)
	return strings.TrimRight(b.String(), "\n")
}

func orNone(s string) string {
	if s == "" {
		return theme.Hint.Render("(none)")
	}
	return s
}

func renderUsage(byPurpose []store.PurposeUsage, byModel []store.ModelUsage) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Usage by purpose") + "\n")
	pt := newTable("Purpose", "Calls", "Input", "Output", "Total", "Avg ms")
	var calls, in, out int
	for _, u := range byPurpose {
		pt.Row(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens),
			strconv.Itoa(u.InputTokens+u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	pt.Row("TOTAL", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), strconv.Itoa(in+out), "")
	b.WriteString(pt.String())

	if len(byModel) == 0 {
		return b.String()
	}

	b.WriteString("\n\n" + theme.Title.Render("Estimated cost (USD)") + "\n")
	mt := newTable("Model", "Calls", "Input", "Output", "Cost")
	var total float64
	var unpriced []string
	for _, m := range byModel {
		cost := "?"
		if c := llm.LookupCost(m.Model); c != nil {
			usd := c.Cost(m.InputTokens, m.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unpriced = append(unpriced, m.Model)
		}
		mt.Row(truncate(m.Model, 32), strconv.Itoa(m.Calls), strconv.Itoa(m.InputTokens), strconv.Itoa(m.OutputTokens), cost)
	}
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	mt.Row(label, "", "", "", formatCost(total))
	b.WriteString(mt.String())

	if len(unpriced) > 0 {
		b.WriteString("\n" + theme.Hint.Render("Pricing unavailable for: "+strings.Join(unpriced, ", ")))
	}
	return b.String()
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (question-gen, answer-eval, answer-repair)")
	llmListCmd.Flags().StringP("user", "u", "", "Filter by quiz user key")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
