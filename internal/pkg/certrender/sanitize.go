package certrender

import (
	"strings"
	"unicode"
)

// SanitizeText strips control characters and collapses surrounding
// whitespace so participant input can never break the drawing layer.
func SanitizeText(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}
