// Package sentiment provides a lexicon-based ports.SentimentScorer.
//
// Each message is scored from the count of positive and negative words and
// emoji it contains: (pos - neg) / (pos + neg), or 0 when neither appears.
// A negator ("not", "never", ...) directly before a word flips its polarity.
package sentiment

import (
	"context"
	"strings"

	"github.com/corey/chatstat/internal/domain/text"
)

var defaultPositive = []string{
	"good", "great", "nice", "love", "awesome", "amazing", "excellent", "happy",
	"thanks", "thank", "cool", "perfect", "glad", "fun", "best", "wonderful",
	"beautiful", "congrats", "yay", "lol", "haha", "agree", "like", "enjoy",
}

var defaultNegative = []string{
	"bad", "terrible", "awful", "hate", "sad", "angry", "worst", "annoying",
	"sorry", "wrong", "broken", "fail", "failed", "problem", "ugly", "boring",
	"stupid", "sucks", "disappointed", "upset", "horrible", "poor", "pain",
}

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "dont": true, "don": true,
	"isnt": true, "wasnt": true, "cant": true, "won": true, "nothing": true,
}

var positiveEmoji = []string{"😀", "😃", "😄", "😁", "😊", "😍", "🥰", "😂", "🤣", "👍", "❤", "🎉", "🔥", "👏", "🙏"}
var negativeEmoji = []string{"😢", "😭", "😡", "😠", "👎", "💔", "😞", "😔", "🤬", "😒"}

// Options extends or overrides the built-in lexicons.
type Options struct {
	Positive []string // extra positive words
	Negative []string // extra negative words; wins over Positive on conflict
	// Replace discards the built-in lexicons.
	Replace bool
}

// Lexicon scores text against positive and negative word sets.
// Safe for concurrent use after construction.
type Lexicon struct {
	words map[string]int // +1 or -1
	emoji map[rune]int
	split *text.Tokenizer
}

// NewLexicon builds a scorer from the built-in lexicons plus overrides.
func NewLexicon(opts Options) *Lexicon {
	l := &Lexicon{
		words: make(map[string]int),
		emoji: make(map[rune]int),
		split: text.NewTokenizer(1, nil),
	}
	if !opts.Replace {
		l.add(defaultPositive, 1)
		l.add(defaultNegative, -1)
		for _, e := range positiveEmoji {
			l.emoji[[]rune(e)[0]] = 1
		}
		for _, e := range negativeEmoji {
			l.emoji[[]rune(e)[0]] = -1
		}
	}
	l.add(opts.Positive, 1)
	l.add(opts.Negative, -1)
	return l
}

func (l *Lexicon) add(words []string, polarity int) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			l.words[w] = polarity
		}
	}
}

// Score implements ports.SentimentScorer.
func (l *Lexicon) Score(ctx context.Context, s string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var pos, neg int
	tally := func(p int) {
		switch {
		case p > 0:
			pos++
		case p < 0:
			neg++
		}
	}

	negate := false
	for _, w := range l.split.Split(strings.ToLower(s)) {
		p := l.words[w]
		if negate {
			p = -p
		}
		tally(p)
		negate = negators[w]
	}
	for _, r := range s {
		tally(l.emoji[r])
	}

	if pos+neg == 0 {
		return 0, nil
	}
	return float64(pos-neg) / float64(pos+neg), nil
}
