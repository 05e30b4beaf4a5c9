package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	hintDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
	keyCapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#888ba4")).
			Bold(true).
			Padding(0, 1)
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#e0af68")).
			Bold(true).
			Padding(0, 1)
	hintGap      = "  "
	overflowMark = hintDescStyle.Render("…")
	barStyle     = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#273540")).
			PaddingLeft(1)
)

// StatusBar renders the bottom line: an optional badge such as the pending
// edit count, then as many hints as fit in width. Hints that do not fit are
// dropped from the end and marked with an ellipsis. width <= 0 keeps all.
func StatusBar(badge string, hints []string, width int) string {
	var parts []string
	used := 0
	if badge != "" {
		b := badgeStyle.Render(badge)
		parts = append(parts, b)
		used = lipgloss.Width(b)
	}

	limit := width - barStyle.GetPaddingLeft()
	gap := lipgloss.Width(hintGap)
	for i, h := range hints {
		w := lipgloss.Width(h)
		if len(parts) > 0 {
			w += gap
		}
		reserve := 0
		if i < len(hints)-1 {
			reserve = gap + lipgloss.Width(overflowMark)
		}
		if width > 0 && used+w+reserve > limit {
			parts = append(parts, overflowMark)
			break
		}
		parts = append(parts, h)
		used += w
	}

	line := strings.Join(parts, hintGap)
	if width > 0 {
		return barStyle.Width(width).Render(line)
	}
	return barStyle.Render(line)
}

// Hint formats a single keybind hint like "space Toggle".
func Hint(key, desc string) string {
	return keyCapStyle.Render(key) + hintDescStyle.Render(" "+desc)
}

// Hints formats alternating key, description pairs.
func Hints(pairs ...string) []string {
	out := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Hint(pairs[i], pairs[i+1]))
	}
	return out
}
