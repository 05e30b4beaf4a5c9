package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOneLineStripsEscapesAndFolds(t *testing.T) {
	input := "\x1b]8;;https://evil\x07click\x1b]8;;\x07\nline\t\tmore "
	assert.Equal(t, "click line more", SanitizeOneLine(input))
}

func TestSanitizeTextRemovesBidiAndControls(t *testing.T) {
	assert.Equal(t, "safeexe.txt", SanitizeText("safe\u202eexe.txt"))
	assert.Equal(t, "ab", SanitizeText("a\u0007\u2066b"))
}

func TestSanitizeTextKeepsTagPunctuation(t *testing.T) {
	assert.Equal(t, "Genetics, Applied", SanitizeText("Genetics, Applied"))
	assert.Equal(t, "a\nb", SanitizeText("a\x1b[2J\nb"))
	assert.Equal(t, "cursor", SanitizeText("\x1b[?25lcursor"))
}

func TestSanitizeLineage(t *testing.T) {
	assert.Equal(t, "Science › Biology", SanitizeLineage([]string{"Science", " Bio\x1b[31mlogy"}))
	assert.Equal(t, "", SanitizeLineage(nil))
}
