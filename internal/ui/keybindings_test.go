package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}))
	assert.False(t, isQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}))
}

func TestIsEnter(t *testing.T) {
	assert.True(t, isEnter(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.False(t, isEnter(tea.KeyMsg{Type: tea.KeySpace}))
}

func TestIsSpace(t *testing.T) {
	assert.True(t, isSpace(tea.KeyMsg{Type: tea.KeySpace}))
	assert.False(t, isSpace(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsBack(t *testing.T) {
	assert.True(t, isBack(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, isBack(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestArrowsIgnoreVimKeysUnlessEnabled(t *testing.T) {
	j := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	k := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	h := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}}
	l := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}}

	assert.True(t, isDown(tea.KeyMsg{Type: tea.KeyDown}, false))
	assert.True(t, isUp(tea.KeyMsg{Type: tea.KeyUp}, false))
	assert.True(t, isLeft(tea.KeyMsg{Type: tea.KeyLeft}, false))
	assert.True(t, isRight(tea.KeyMsg{Type: tea.KeyRight}, false))
	assert.False(t, isDown(tea.KeyMsg{Type: tea.KeyUp}, true))

	assert.False(t, isDown(j, false))
	assert.False(t, isUp(k, false))
	assert.False(t, isLeft(h, false))
	assert.False(t, isRight(l, false))

	assert.True(t, isDown(j, true))
	assert.True(t, isUp(k, true))
	assert.True(t, isLeft(h, true))
	assert.True(t, isRight(l, true))
}

func TestIsDelete(t *testing.T) {
	assert.True(t, isDelete(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}))
	assert.True(t, isDelete(tea.KeyMsg{Type: tea.KeyDelete}))
	assert.True(t, isDelete(tea.KeyMsg{Type: tea.KeyBackspace}))
	assert.False(t, isDelete(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}))
}

func TestYesNo(t *testing.T) {
	assert.True(t, isYes(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}))
	assert.True(t, isYes(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'Y'}}))
	assert.False(t, isYes(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}))
	assert.True(t, isNo(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}))
	assert.True(t, isNo(tea.KeyMsg{Type: tea.KeyEsc}))
}

func TestIsKey(t *testing.T) {
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, "s"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyCtrlS}, "s", "ctrl+s"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyLeft}, "left"))
	assert.False(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, "a"))
	assert.False(t, isKey(tea.KeyMsg{Type: tea.KeyLeft}, "right"))
}
