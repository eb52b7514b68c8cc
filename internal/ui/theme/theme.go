// Package theme holds the terminal styles used by the operator commands.
package theme

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#F97316") // Orange
	Error     = lipgloss.Color("#F43F5E") // Rose
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Value = lipgloss.NewStyle().
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// ScoreStyle colors a 0-10 score: green from 8, orange from 5, rose below.
func ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 8:
		return lipgloss.NewStyle().Foreground(Success).Bold(true)
	case score >= 5:
		return lipgloss.NewStyle().Foreground(Warning).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(Error).Bold(true)
	}
}

// Bar renders a fixed-width bar filled in proportion to score/10.
func Bar(score float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(score / 10 * float64(width))
	filled = max(0, min(width, filled))
	return ScoreStyle(score).Render(strings.Repeat("█", filled)) +
		Label.Render(strings.Repeat("░", width-filled))
}

// FormatScore renders "7.5/10" in the score color.
func FormatScore(score float64) string {
	return ScoreStyle(score).Render(fmt.Sprintf("%.1f/10", score))
}
