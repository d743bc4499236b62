package text

import "strings"

// defaultStopwords are common English words hidden from top-word views.
var defaultStopwords = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "it",
	"for", "not", "on", "with", "he", "as", "you", "do", "at", "this",
	"but", "his", "by", "from", "they", "we", "say", "her", "she",
	"or", "an", "will", "my", "one", "all", "would", "there", "their",
	"what", "so", "up", "out", "if", "about", "who", "get", "which",
	"go", "me", "i", "when", "make", "is", "was", "am", "are",
}

// Stopwords is a set of words excluded from displayed word histograms.
// Membership is case-insensitive.
type Stopwords map[string]struct{}

// NewStopwords builds a set from words. An empty list yields the default set.
func NewStopwords(words []string) Stopwords {
	if len(words) == 0 {
		words = defaultStopwords
	}
	s := make(Stopwords, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// Contains reports whether word is a stopword.
func (s Stopwords) Contains(word string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[strings.ToLower(word)]
	return ok
}
