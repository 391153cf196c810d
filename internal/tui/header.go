package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ragtail-dev/ragtail/internal/track"
	"github.com/ragtail-dev/ragtail/internal/ui"
)

func RenderHeader(server string, phase track.Phase, activeID string, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(fmt.Sprintf(" ragtail | %s", server))

	live := ""
	switch phase {
	case track.PhaseStreaming:
		live = ui.StyleInfo.Render(fmt.Sprintf("streaming %s ", activeID))
	case track.PhasePollingOnly:
		live = ui.StyleWarning.Render(fmt.Sprintf("polling %s ", activeID))
	case track.PhaseTerminal:
		live = ui.StyleSuccess.Render(fmt.Sprintf("%s finished ", activeID))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(live)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#1F2937")).
		Width(width).
		Render(left + padding + live)
}
