package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestHintIncludesKeyAndDesc(t *testing.T) {
	out := Hint("↑/↓", "Scroll")
	assert.True(t, strings.Contains(out, "Scroll"))
	assert.True(t, strings.Contains(out, "↑/↓"))
}

func TestHintsPairsKeysAndDescriptions(t *testing.T) {
	hints := Hints("a", "Add", "s", "Save", "dangling")
	assert.Len(t, hints, 2)
	assert.Contains(t, hints[0], "Add")
	assert.Contains(t, hints[1], "Save")
}

func TestStatusBarRendersBadgeAndHints(t *testing.T) {
	out := StatusBar("2 unsaved", Hints("s", "Save", "q", "Quit"), 0)
	assert.Contains(t, out, "2 unsaved")
	assert.Contains(t, out, "Save")
	assert.Contains(t, out, "Quit")
	assert.NotContains(t, out, "…")
	assert.Less(t, strings.Index(out, "unsaved"), strings.Index(out, "Save"))
}

func TestStatusBarDropsHintsThatDoNotFit(t *testing.T) {
	hints := Hints("a", "Add", "x", "Remove", "s", "Save", "q", "Quit")
	out := StatusBar("", hints, 24)
	assert.Contains(t, out, "Add")
	assert.NotContains(t, out, "Quit")
	assert.Contains(t, out, "…")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 24)
	}
}

func TestStatusBarKeepsLastHintWithoutOverflowMark(t *testing.T) {
	hints := Hints("q", "Quit")
	out := StatusBar("", hints, lipgloss.Width(hints[0])+1)
	assert.Contains(t, out, "Quit")
	assert.NotContains(t, out, "…")
}
