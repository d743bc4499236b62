// Package stats holds the per-entity accumulators, the sequential per-message
// pass, the parallel category pass, and ratio derivation.
package stats

import (
	"github.com/corey/chatstat/internal/ports"
)

// DateLayout keys the daily message histogram.
const DateLayout = "2006-01-02"

// GroupName is the display name of the group-wide aggregate entity.
const GroupName = "Group"

// Accumulator holds the raw counters of one entity (a user or the group).
// It is mutated only by Collector.Observe and Collector.Analyze.
type Accumulator struct {
	MessageCount           int `json:"message_count"`
	WordCount              int `json:"word_count"`
	LetterCount            int `json:"letter_count"`
	MediaCount             int `json:"media_count"`
	LoudWordCount          int `json:"loud_word_count"`
	LoudMessageCount       int `json:"loud_message_count"`
	CurseCount             int `json:"curse_count"`
	ReactionsGivenCount    int `json:"reactions_given_count"`
	ReactionsReceivedCount int `json:"reactions_received_count"`

	WordCounter       Multiset            `json:"word_counter"`
	ReactionsGiven    Multiset            `json:"reactions_given"`
	ReactionsReceived Multiset            `json:"reactions_received"`
	DailyMessages     Multiset            `json:"daily_messages"`
	CategoryWords     map[string]Multiset `json:"category_words"`

	SentimentSum   float64 `json:"sentiment_sum"`
	SentimentCount int     `json:"sentiment_count"`

	// text is the normalized message texts joined by category.Sentinel.
	// Consumed and released by the category pass.
	text []byte
}

// NewAccumulator returns an accumulator with every multiset initialized.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		WordCounter:       make(Multiset),
		ReactionsGiven:    make(Multiset),
		ReactionsReceived: make(Multiset),
		DailyMessages:     make(Multiset),
		CategoryWords:     make(map[string]Multiset),
	}
}

// ActiveDays is the number of distinct days with at least one message.
func (a *Accumulator) ActiveDays() int { return len(a.DailyMessages) }

// AddCategoryCounts merges matcher output into CategoryWords.
func (a *Accumulator) AddCategoryCounts(counts ports.CategoryCounts) {
	for cat, words := range counts {
		ms := a.CategoryWords[cat]
		if ms == nil {
			ms = make(Multiset)
			a.CategoryWords[cat] = ms
		}
		for w, n := range words {
			ms.Add(w, n)
		}
	}
}

// MeanSentiment returns the average score, or nil when nothing was scored.
func (a *Accumulator) MeanSentiment() *float64 {
	if a.SentimentCount == 0 {
		return nil
	}
	v := a.SentimentSum / float64(a.SentimentCount)
	return &v
}

// Entity is a user, or the group aggregate, with its accumulator.
type Entity struct {
	ID    int64
	Name  string // empty until a message from the entity is observed
	Group bool
	Acc   *Accumulator
}

// DisplayName returns Name, or ports.UnknownUser for entities only ever
// seen as reactors.
func (e *Entity) DisplayName() string {
	if e.Name == "" {
		return ports.UnknownUser
	}
	return e.Name
}
