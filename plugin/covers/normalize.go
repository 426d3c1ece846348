package covers

import (
	"strings"
	"unicode"
)

// Normalize converts a raw title to its cache key: lowercased, with every
// Unicode punctuation or symbol rune replaced by a space, runs of whitespace
// collapsed to one space, and the result trimmed. Two titles differing only
// by case or punctuation intentionally collide to the same key.
func Normalize(title string) string {
	lowered := strings.ToLower(title)
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, lowered)
	return strings.Join(strings.Fields(mapped), " ")
}
