// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/openclaw/openclaw/internal/core/runlog"
)

var (
	success = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	failure = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	warning = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

// RenderStatus returns the status colored by outcome.
func RenderStatus(s runlog.Status) string {
	switch s {
	case runlog.StatusCompleted:
		return success.Render(string(s))
	case runlog.StatusFailed:
		return failure.Render(string(s))
	case runlog.StatusKilled:
		return warning.Render(string(s))
	}
	return string(s)
}

// RenderMuted renders de-emphasized detail text.
func RenderMuted(s string) string {
	return muted.Render(s)
}
