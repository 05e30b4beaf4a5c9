package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#273540")).
			Padding(1, 2).
			Width(40)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7f57b4")).
				Bold(true)

	dialogMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9ba0bf"))
)

const confirmHint = "y: confirm | n: cancel"

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	header := dialogTitleStyle.Render(title)
	body := dialogMutedStyle.Render(SanitizeText(message))
	hint := dialogMutedStyle.Render("\n" + confirmHint)
	return dialogStyle.Render(header + "\n\n" + body + hint)
}

// ConfirmDiffDialog renders a confirmation listing the pending changes.
func ConfirmDiffDialog(title string, diffs []DiffRow, width int) string {
	sections := make([]string, 0, 2)
	if table := DiffTable("Changes", diffs, width); table != "" {
		sections = append(sections, table)
	}
	sections = append(sections, dialogMutedStyle.Render(confirmHint))
	return TitledBox(title, strings.Join(sections, "\n\n"), width)
}
