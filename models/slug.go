package models

import (
	"strings"
	"unicode"
)

// Slugify lowercases s, drops punctuation and joins words with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || r == '_' || unicode.IsSpace(r):
			pendingDash = true
		}
	}
	return b.String()
}
