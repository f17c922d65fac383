// Package normalize folds spreadsheet text into comparable forms.
//
// Text cleans a cell for storage:
// 1 drop control bytes and invalid UTF-8
// 2 NFKC compatibility forms, fullwidth to ASCII
// 3 collapse whitespace runs to one space and trim
//
// Key folds a header for alias lookup:
// 1 everything Text does
// 2 decompose, strip combining marks and format runes, recompose
// 3 case fold
// 4 keep letters and digits only, so "Emp. ID", "emp_id" and "EMP-ID" agree
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// transformer chains carry state, so each goroutine takes its own from a pool
var (
	textPool = sync.Pool{New: func() any {
		return transform.Chain(norm.NFKC, width.Fold)
	}}
	keyPool = sync.Pool{New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			norm.NFC,
			cases.Fold(),
			width.Fold,
		)
	}}
)

func apply(p *sync.Pool, s string) string {
	tr := p.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	p.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// Text returns s cleaned for storage: sanitized, width folded, single spaced
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)
	if isPlainASCII(s) {
		return collapseSpaces(s)
	}
	return collapseSpaces(apply(&textPool, s))
}

// Key returns the lookup form of a header; blank or punctuation-only input yields ""
func Key(s string) string {
	s = Text(s)
	if s == "" {
		return ""
	}
	s = apply(&keyPool, s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fields splits on whitespace after Text, for name and keyword matching
func Fields(s string) []string { return strings.Fields(Text(s)) }

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// collapseSpaces maps every whitespace run, line breaks included, to one ASCII space
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
