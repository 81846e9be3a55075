package textutil

import (
	"strings"
	"unicode"
)

// DefaultTitleLength caps sanitized titles.
const DefaultTitleLength = 50

// SanitizeTitle turns a video title into a filesystem-safe base name.
// Letters, digits, underscores, and hyphens are kept; other symbols are
// dropped; whitespace runs become a single underscore. Leading and trailing
// underscores are trimmed and the result is truncated to maxRunes runes
// (DefaultTitleLength when maxRunes <= 0).
func SanitizeTitle(title string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultTitleLength
	}
	var b strings.Builder
	b.Grow(len(title))
	lastUnderscore := false
	for _, r := range title {
		switch {
		case unicode.IsSpace(r) || r == '_':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		}
	}
	out := []rune(strings.Trim(b.String(), "_"))
	if len(out) > maxRunes {
		out = out[:maxRunes]
	}
	return string(out)
}
