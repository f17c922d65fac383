package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sanitize drops bytes that must not reach the database or the alias table:
// NUL and other C0 controls except tab and line breaks, DEL, C1 controls,
// format runes such as the byte order mark and zero-width joiners, and invalid UTF-8.
// Clean input is returned unchanged without allocating.
func Sanitize(s string) string {
	if s == "" || clean(s) {
		return s
	}
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		if dropped(r) {
			return -1
		}
		return r
	}, s)
}

func clean(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return false
		}
		if dropped(r) {
			return false
		}
		i += size
	}
	return true
}

func dropped(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20 || r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	}
	return unicode.Is(unicode.Cf, r)
}
