package report

import (
	"strings"

	"github.com/corey/chatstat/internal/domain/stats"
	"github.com/corey/chatstat/internal/domain/text"
	"github.com/corey/chatstat/internal/ports"
)

// Census tallies every word of the chat both as written and lowercased.
// Unlike the per-user pass it ignores stopwords and keeps case.
type Census struct {
	normalizer *text.Normalizer
	tokenizer  *text.Tokenizer
	sensitive  stats.Multiset
	lower      stats.Multiset
}

// NewCensus returns an empty census. Case folding in n is bypassed.
func NewCensus(n *text.Normalizer, t *text.Tokenizer) *Census {
	return &Census{
		normalizer: n,
		tokenizer:  t,
		sensitive:  make(stats.Multiset),
		lower:      make(stats.Multiset),
	}
}

// Observe adds the words of one message. System messages count too; the
// census is about text, not senders.
func (c *Census) Observe(msg *ports.Message) {
	if msg == nil || msg.Text == "" {
		return
	}
	for _, w := range c.tokenizer.Split(c.normalizer.Normalize(msg.Text).Cased) {
		c.sensitive.Add(w, 1)
		c.lower.Add(strings.ToLower(w), 1)
	}
}

// Result returns the four census views.
func (c *Census) Result() *ports.WordCensus {
	return &ports.WordCensus{
		SensitiveByFrequency:    c.sensitive.Top(0),
		SensitiveAlphabetical:   c.sensitive.Alphabetical(),
		InsensitiveByFrequency:  c.lower.Top(0),
		InsensitiveAlphabetical: c.lower.Alphabetical(),
	}
}
