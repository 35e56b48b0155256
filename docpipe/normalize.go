package docpipe

import (
	"regexp"
	"strings"
)

var (
	// citationRe matches bracketed numeric citation markers: [3], [12-15].
	citationRe = regexp.MustCompile(`\[\d+(?:-\d+)?\]`)

	// spaceRunRe matches runs of horizontal whitespace.
	spaceRunRe = regexp.MustCompile(`[^\S\n]+`)

	// newlineRunRe matches a newline with any surrounding blank space.
	newlineRunRe = regexp.MustCompile(` *\n[ \n]*`)
)

// Normalize cleans extracted text: drops replacement and private-use
// runes, removes citation markers, and collapses whitespace so that runs
// of spaces become one space and runs of newlines one newline. The result
// is a fixpoint: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if isGarbageRune(r) {
			continue
		}
		if r == '\r' || r == '\t' {
			r = ' '
		}
		sb.WriteRune(r)
	}
	s := sb.String()

	// Removing one marker can expose another ([1[2]3] leaves [13]), so
	// iterate until stable.
	for {
		next := citationRe.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}

	s = spaceRunRe.ReplaceAllString(s, " ")
	s = newlineRunRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// isGarbageRune reports runes that carry no text content: the Unicode
// replacement character, private-use glyphs from broken font mappings,
// and control characters other than whitespace.
func isGarbageRune(r rune) bool {
	switch {
	case r == 0xFFFD:
		return true
	case r >= 0xE000 && r <= 0xF8FF:
		return true
	case r < 0x20 && r != '\n' && r != '\r' && r != '\t':
		return true
	case r == 0x7F:
		return true
	}
	return false
}
