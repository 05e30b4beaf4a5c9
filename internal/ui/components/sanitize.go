package components

import (
	"regexp"
	"strings"
	"unicode"
)

// csi and osc sequences; tag values come from imported taxonomies and may
// carry terminal escapes.
var (
	csiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	oscPattern = regexp.MustCompile(`\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)
)

// SanitizeText removes escape sequences, control characters and bidi
// overrides. Newlines and tabs are kept.
func SanitizeText(input string) string {
	if input == "" {
		return input
	}
	cleaned := csiPattern.ReplaceAllString(oscPattern.ReplaceAllString(input, ""), "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case unicode.Is(unicode.Bidi_Control, r), unicode.IsControl(r):
			return -1
		}
		return r
	}, cleaned)
}

// SanitizeOneLine is SanitizeText folded to a single line with runs of
// whitespace collapsed.
func SanitizeOneLine(input string) string {
	return strings.Join(strings.Fields(SanitizeText(input)), " ")
}

// SanitizeLineage renders a tag lineage as one line, root first.
func SanitizeLineage(lineage []string) string {
	parts := make([]string, 0, len(lineage))
	for _, seg := range lineage {
		parts = append(parts, SanitizeOneLine(seg))
	}
	return strings.Join(parts, " › ")
}
