package stats

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/corey/chatstat/internal/domain/text"
	"github.com/corey/chatstat/internal/ports"
)

// Recorder receives run counters. internal/metrics implements it.
type Recorder interface {
	MessageObserved()
	MessageSkipped()
	ReactionsCounted(n int)
	SentimentFailed()
	CategoryPass(d time.Duration, entities int)
}

type nopRecorder struct{}

func (nopRecorder) MessageObserved() {}
func (nopRecorder) MessageSkipped() {}
func (nopRecorder) ReactionsCounted(int) {}
func (nopRecorder) SentimentFailed() {}
func (nopRecorder) CategoryPass(time.Duration, int) {}

// Config wires a Collector. Normalizer, Tokenizer and Matcher are required.
type Config struct {
	Normalizer *text.Normalizer
	Tokenizer  *text.Tokenizer
	Matcher    ports.CategoryMatcher

	// Scorer is nil when sentiment is disabled; the step is then skipped.
	Scorer ports.SentimentScorer
	// Transcript is nil when no channel log is wanted.
	Transcript ports.TranscriptSink
	Metrics    Recorder
	Logger     zerolog.Logger

	// Location buckets messages into calendar days. Nil means UTC.
	Location       *time.Location
	CountReactions bool
	// Workers bounds the category pass. <= 0 means GOMAXPROCS.
	Workers int
}

// Collector owns every entity of one run. It is not safe for concurrent
// Observe calls; the message stream is processed sequentially.
type Collector struct {
	cfg Config
	log zerolog.Logger

	entities map[int64]*Entity
	order    []*Entity // first-observed order
	group    *Entity

	transcriptFailed bool
	analyzed         bool
}

// NewCollector returns an empty collector.
func NewCollector(cfg Config) *Collector {
	if cfg.Metrics == nil {
		cfg.Metrics = nopRecorder{}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Collector{
		cfg:      cfg,
		log:      cfg.Logger.With().Str("component", "collector").Logger(),
		entities: make(map[int64]*Entity),
		group:    &Entity{Name: GroupName, Group: true, Acc: NewAccumulator()},
	}
}

// Group returns the group-wide aggregate entity.
func (c *Collector) Group() *Entity { return c.group }

// Entities returns every user entity in first-observed order.
func (c *Collector) Entities() []*Entity { return c.order }

// Entity returns the entity for id, or nil.
func (c *Collector) Entity(id int64) *Entity { return c.entities[id] }

// entity returns the entity for id, creating it on first sight.
func (c *Collector) entity(id int64) *Entity {
	e := c.entities[id]
	if e == nil {
		e = &Entity{ID: id, Acc: NewAccumulator()}
		c.entities[id] = e
		c.order = append(c.order, e)
	}
	return e
}
