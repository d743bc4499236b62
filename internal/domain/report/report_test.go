package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/chatstat/internal/domain/category"
	"github.com/corey/chatstat/internal/domain/stats"
	"github.com/corey/chatstat/internal/domain/text"
	"github.com/corey/chatstat/internal/ports"
)

var day0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func collect(t *testing.T, msgs ...*ports.Message) *stats.Collector {
	t.Helper()
	tbl, err := category.NewTable([]category.Category{
		{Name: "fruits", Entries: []category.Entry{category.NewEntry("apple"), category.NewEntry("banana")}},
		{Name: category.Curses, Entries: []category.Entry{category.NewEntry("damn")}},
	}, category.Options{Fold: strings.ToLower})
	require.NoError(t, err)
	m, err := category.NewRegexMatcher(tbl)
	require.NoError(t, err)

	c := stats.NewCollector(stats.Config{
		Normalizer:     text.NewNormalizer(text.DefaultOptions()),
		Tokenizer:      text.NewTokenizer(1, text.NewStopwords(nil)),
		Matcher:        m,
		CountReactions: true,
	})
	for _, msg := range msgs {
		c.Observe(context.Background(), msg)
	}
	require.NoError(t, c.Analyze(context.Background()))
	return c
}

func from(id int64, name string) *ports.Sender { return &ports.Sender{ID: id, FirstName: name} }

func TestBuild_GlobalAndUsers(t *testing.T) {
	c := collect(t,
		&ports.Message{
			ID: 1, Sender: from(1, "Ann"), Date: day0, Text: "apple BANANA",
			Reactions: []ports.Reaction{{UserID: 2, Emoji: "👍"}},
		},
		&ports.Message{ID: 2, Sender: from(1, "Ann"), Date: day0.Add(time.Hour), Text: "apple"},
		&ports.Message{ID: 3, Sender: from(1, "Ann"), Date: day0.Add(24 * time.Hour), Media: true},
		&ports.Message{ID: 4, Sender: from(3, "Cem"), Date: day0.Add(24 * time.Hour), Text: "damn the apple"},
	)
	rep := Builder{Limits: DefaultLimits()}.Build(c, "run-1", day0)

	g := rep.Global
	assert.Equal(t, "run-1", g.RunID)
	assert.Equal(t, 4, g.MessageCount)
	assert.Equal(t, 6, g.WordCount)
	assert.Equal(t, 1, g.CurseCount)
	assert.Equal(t, "2024-03-01", g.FirstDay)
	assert.Equal(t, "2024-03-02", g.LastDay)
	assert.Equal(t, 3, g.UserCount)
	assert.Equal(t, ports.Count{Key: "apple", Count: 3}, g.TopWords[0])
	assert.Equal(t, ports.Count{Key: "apple", Count: 3}, g.TopCategories["fruits"][0])
	assert.Equal(t, []ports.Count{{Key: "👍", Count: 1}}, g.TopReactions)

	require.Len(t, rep.Users, 3)
	ann := rep.Users[0]
	assert.Equal(t, "Ann", ann.Name)
	assert.Equal(t, 3, ann.MessageCount)
	assert.Equal(t, 2, ann.ActiveDays)
	assert.InDelta(t, 1.5, ann.MessagesPerDay, 1e-9)
	assert.InDelta(t, 1.0/3, ann.MediaRatio, 1e-9)

	bob := rep.Users[1]
	assert.Equal(t, "Unknown User", bob.Name)
	assert.Equal(t, 1, bob.ReactionsGivenCount)

	require.Len(t, g.TopCursingUsers, 1)
	assert.Equal(t, int64(3), g.TopCursingUsers[0].UserID)
	require.Len(t, g.TopReactingUsers, 1)
	assert.Equal(t, int64(2), g.TopReactingUsers[0].UserID)
}

func TestBuild_OutliersKeepTheirRecord(t *testing.T) {
	var msgs []*ports.Message
	for i := 0; i < 5; i++ {
		msgs = append(msgs, &ports.Message{ID: int64(i + 1), Sender: from(1, "Busy"), Date: day0, Text: "hi"})
	}
	msgs = append(msgs, &ports.Message{ID: 10, Sender: from(2, "Rare"), Date: day0, Text: "hi"})
	c := collect(t, msgs...)

	rep := Builder{
		Limits:   DefaultLimits(),
		Outliers: stats.OutlierPolicy{Enabled: true, MinMessages: 2},
	}.Build(c, "r", day0)

	require.Len(t, rep.Users, 2)
	rare := rep.Users[1]
	assert.NotNil(t, rare)
	assert.True(t, rare.Outlier)
	assert.Equal(t, 1, rare.MessageCount)

	for _, row := range rep.Global.TopActiveUsers {
		assert.NotEqual(t, int64(2), row.UserID)
	}
	assert.Equal(t, 6, rep.Global.MessageCount, "outliers still count toward group totals")
}

func TestBuild_Truncation(t *testing.T) {
	c := collect(t, &ports.Message{ID: 1, Sender: from(1, "A"), Date: day0, Text: "one two three four"})
	lim := DefaultLimits()
	lim.UserWords = 2
	lim.GlobalWords = 3
	rep := Builder{Limits: lim}.Build(c, "r", day0)
	assert.Len(t, rep.Users[0].TopWords, 2)
	assert.Len(t, rep.Global.TopWords, 3)
}

func TestCensus(t *testing.T) {
	cs := NewCensus(text.NewNormalizer(text.DefaultOptions()), text.NewTokenizer(1, nil))
	cs.Observe(&ports.Message{Text: "Apple apple the https://x.io"})
	cs.Observe(&ports.Message{Text: "APPLE"})
	cs.Observe(&ports.Message{})
	cs.Observe(nil)

	res := cs.Result()
	assert.Equal(t, []ports.Count{{Key: "apple", Count: 3}, {Key: "the", Count: 1}}, res.InsensitiveByFrequency)
	assert.Equal(t, []ports.Count{{Key: "apple", Count: 3}, {Key: "the", Count: 1}}, res.InsensitiveAlphabetical)
	assert.Equal(t, []ports.Count{{Key: "APPLE", Count: 1}, {Key: "Apple", Count: 1}, {Key: "apple", Count: 1}, {Key: "the", Count: 1}}, res.SensitiveAlphabetical)
	assert.Len(t, res.SensitiveByFrequency, 4)
}
