package domain

import (
	"strings"
	"unicode"
)

// CommandMarker prefixes public commands; a leading marker is ignored when
// comparing passes.
const CommandMarker = "!"

// NormalizePass strips a leading command marker, removes every whitespace rune
// and lower-cases the rest.
func NormalizePass(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, CommandMarker)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// PassMatches reports whether an already-normalized message is a fragment of an
// already-normalized pass. The empty message never matches.
func PassMatches(message, pass string) bool {
	if message == "" || pass == "" {
		return false
	}
	return strings.Contains(pass, message)
}
