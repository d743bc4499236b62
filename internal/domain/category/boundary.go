package category

import (
	"unicode"
	"unicode/utf8"
)

// IsWordRune reports whether r is a word character: a letter, mark, digit
// or underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || unicode.IsNumber(r)
}

// AtBoundary reports whether byte offset pos in s sits on a word boundary:
// exactly one of the runes on either side is a word character. The start and
// end of s count as non-word.
func AtBoundary(s string, pos int) bool {
	before, after := false, false
	if pos > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:pos])
		before = IsWordRune(r)
	}
	if pos < len(s) {
		r, _ := utf8.DecodeRuneInString(s[pos:])
		after = IsWordRune(r)
	}
	return before != after
}
