// Package transcript normalizes recognized text before it is pasted.
package transcript

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Options controls transcript formatting.
type Options struct {
	TrailingSpace   bool
	CapitalizeFirst bool
}

// Normalize applies NFC, collapses whitespace, and appends the optional
// trailing space. Whitespace-only input yields "".
func Normalize(text string, opts Options) string {
	normalized := strings.Join(strings.Fields(norm.NFC.String(text)), " ")
	if normalized == "" {
		return ""
	}

	if opts.CapitalizeFirst {
		normalized = capitalizeFirst(normalized)
	}

	if opts.TrailingSpace {
		return normalized + " "
	}
	return normalized
}

func capitalizeFirst(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if !unicode.IsLower(r) {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}
