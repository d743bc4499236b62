package stats

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corey/chatstat/internal/domain/category"
	"github.com/corey/chatstat/internal/domain/text"
	"github.com/corey/chatstat/internal/ports"
)

var day0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestCollector(t *testing.T, mutate ...func(*Config)) *Collector {
	t.Helper()
	tbl, err := category.NewTable([]category.Category{
		{Name: "countries", Entries: []category.Entry{category.NewEntry("usa", "america")}},
		{Name: "fruits", Entries: []category.Entry{category.NewEntry("apple"), category.NewEntry("banana")}},
		{Name: category.Curses, Entries: []category.Entry{category.NewEntry("damn"), category.NewEntry("heck")}},
	}, category.Options{Fold: strings.ToLower})
	require.NoError(t, err)
	m, err := category.NewRegexMatcher(tbl)
	require.NoError(t, err)

	cfg := Config{
		Normalizer:     text.NewNormalizer(text.DefaultOptions()),
		Tokenizer:      text.NewTokenizer(1, nil),
		Matcher:        m,
		CountReactions: true,
		Workers:        2,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	return NewCollector(cfg)
}

func sender(id int64, first string) *ports.Sender {
	return &ports.Sender{ID: id, FirstName: first}
}

func msg(id int64, from *ports.Sender, at time.Time, body string) *ports.Message {
	return &ports.Message{ID: id, Sender: from, Date: at, Text: body}
}

func run(t *testing.T, c *Collector, msgs ...*ports.Message) {
	t.Helper()
	ctx := context.Background()
	for _, m := range msgs {
		c.Observe(ctx, m)
	}
	require.NoError(t, c.Analyze(ctx))
}

type recordingSink struct {
	lines []string
	err   error
}

func (s *recordingSink) WriteLine(at time.Time, name, body string) error {
	if s.err != nil {
		return s.err
	}
	s.lines = append(s.lines, name+": "+body)
	return nil
}

type fixedScorer struct {
	score float64
	fail  string // texts containing this fail
}

func (f fixedScorer) Score(_ context.Context, s string) (float64, error) {
	if f.fail != "" && strings.Contains(s, f.fail) {
		return 0, errors.New("model unavailable")
	}
	return f.score, nil
}
