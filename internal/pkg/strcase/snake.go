// Package strcase converts Go identifier casing to wire casing. The
// validator uses it to report struct field names as their JSON keys.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts CamelCase (including acronym runs like
// HTTPServer or userID) to snake_case.
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s))

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]

			var next rune
			if i+1 < len(runes) {
				next = runes[i+1]
			}

			// boundary: lower or digit before an upper (userID),
			// or the end of an acronym run (HTTPServer).
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteRune('_')
			} else if unicode.IsUpper(prev) && next != 0 && unicode.IsLower(next) {
				b.WriteRune('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
