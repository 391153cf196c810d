package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ragtail-dev/ragtail/internal/model"
)

var (
	ColorPrimary   = lipgloss.Color("#0D9488")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleMatch = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FCD34D")).
			Background(lipgloss.Color("#78350F"))
)

func StatusStyle(status model.RunStatus) lipgloss.Style {
	switch status {
	case model.RunStatusCompleted:
		return StyleSuccess
	case model.RunStatusFailed:
		return StyleFailure
	case model.RunStatusBlocked:
		return StyleWarning
	case model.RunStatusRunning:
		return StyleInfo
	default:
		return StyleMuted
	}
}

func StatusIcon(status model.RunStatus) string {
	switch status {
	case model.RunStatusCompleted:
		return StyleSuccess.Render("V")
	case model.RunStatusFailed:
		return StyleFailure.Render("X")
	case model.RunStatusBlocked:
		return StyleWarning.Render("!")
	case model.RunStatusRunning:
		return StyleInfo.Render("*")
	default:
		return StyleMuted.Render("?")
	}
}

// EventLabel maps wire event types to short display labels.
func EventLabel(eventType string) string {
	switch eventType {
	case "retrieval_start":
		return "retrieve"
	case "retrieval_complete":
		return "retrieved"
	case "generation_start":
		return "generate"
	case "generation_complete":
		return "generated"
	case "judge_start":
		return "judge"
	case "judge_complete":
		return "judged"
	case "guardrail_triggered":
		return "blocked"
	case "run_complete":
		return "done"
	case "error":
		return "error"
	default:
		return eventType
	}
}
