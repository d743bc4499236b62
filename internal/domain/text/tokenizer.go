package text

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// wordRe matches a maximal run of letters, marks, digits and underscores.
var wordRe = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)

// Tokens is the result of tokenizing one message.
type Tokens struct {
	// Words is every token that passed the length filter, in order.
	// It feeds word_count and letter_count.
	Words []string
	// Display is Words minus stopwords (when filtering is on).
	// It feeds the word histograms.
	Display []string
	// Letters is the summed rune length of Words.
	Letters int
}

// Tokenizer extracts words from normalized text.
type Tokenizer struct {
	minLen    int
	stopwords Stopwords // nil disables stopword filtering
}

// NewTokenizer returns a tokenizer keeping tokens of at least minLen runes.
// Pass nil stopwords to disable filtering.
func NewTokenizer(minLen int, stopwords Stopwords) *Tokenizer {
	if minLen < 1 {
		minLen = 1
	}
	return &Tokenizer{minLen: minLen, stopwords: stopwords}
}

// Split returns the length-filtered words of s.
func (t *Tokenizer) Split(s string) []string {
	if s == "" {
		return nil
	}
	raw := wordRe.FindAllString(s, -1)
	words := raw[:0]
	for _, w := range raw {
		if utf8.RuneCountInString(w) >= t.minLen {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil
	}
	return words
}

// Tokenize splits s into words and derives the display view.
func (t *Tokenizer) Tokenize(s string) Tokens {
	var tok Tokens
	tok.Words = t.Split(s)
	for _, w := range tok.Words {
		tok.Letters += utf8.RuneCountInString(w)
	}
	if t.stopwords == nil {
		tok.Display = tok.Words
		return tok
	}
	for _, w := range tok.Words {
		if !t.stopwords.Contains(w) {
			tok.Display = append(tok.Display, w)
		}
	}
	return tok
}

// LoudWords counts the tokens of s that are entirely uppercase.
// s must be pre-case-fold text.
func (t *Tokenizer) LoudWords(s string) int {
	n := 0
	for _, w := range t.Split(s) {
		if IsLoud(w) {
			n++
		}
	}
	return n
}

// IsLoud reports whether s has at least one cased letter and no lowercase
// or titlecase letters. "HELLO THERE" and "OK 123" are loud; "123" is not.
func IsLoud(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}
