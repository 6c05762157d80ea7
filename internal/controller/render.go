package controller

import (
	"github.com/charmbracelet/lipgloss"

	m "linktypes.dev/pkg/linktypes/internal/model"
)

var (
	changedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	unchangedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	failedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
)

// statusWidth pads status labels so paths line up.
const statusWidth = 9

func renderStatus(kind m.OutcomeKind, color bool) string {
	label := kind.String()
	for len(label) < statusWidth {
		label += " "
	}

	if !color {
		return label
	}

	switch kind {
	case m.Changed:
		return changedStyle.Render(label)
	case m.Failed:
		return failedStyle.Render(label)
	default:
		return unchangedStyle.Render(label)
	}
}

func renderHint(hint string, color bool) string {
	text := "hint: " + hint
	if !color {
		return text
	}

	return hintStyle.Render(text)
}

func renderTitle(title string, color bool) string {
	if !color {
		return title
	}

	return titleStyle.Render(title)
}
