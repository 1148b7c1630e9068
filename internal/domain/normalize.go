package domain

import (
	"strings"
	"unicode"
)

// NormalizeName prepares an author or genre name for storage and lookup:
//   - trims leading/trailing whitespace
//   - compresses inner whitespace runs into a single space
//
// Case is preserved: "Tolkien" and "tolkien" are different names.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name))
	prevSpace := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteByte(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
