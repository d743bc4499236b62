package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculate_ZeroDenominators(t *testing.T) {
	r := Calculate(NewAccumulator(), DaySpan{}, RatioOptions{Percent: true})
	for name, v := range map[string]float64{
		"activeness":        r.Activeness,
		"media_ratio":       r.MediaRatio,
		"loudness":          r.Loudness,
		"loud_word_ratio":   r.LoudWordRatio,
		"naughtiness":       r.Naughtiness,
		"rg_ratio":          r.RGRatio,
		"rr_ratio":          r.RRRatio,
		"words_per_message": r.WordsPerMessage,
		"messages_per_day":  r.MessagesPerDay,
	} {
		assert.Zero(t, v, name)
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), name)
	}
	assert.Nil(t, r.Sentiment)
}

func TestCalculate_Formulas(t *testing.T) {
	a := NewAccumulator()
	a.MessageCount = 4
	a.WordCount = 10
	a.MediaCount = 1
	a.LoudMessageCount = 2
	a.LoudWordCount = 5
	a.CurseCount = 1
	a.ReactionsGivenCount = 2
	a.ReactionsReceivedCount = 8
	a.DailyMessages = Multiset{"2024-03-01": 3, "2024-03-03": 1}

	r := Calculate(a, DaySpan{Days: 8}, RatioOptions{Loudness: LoudMessages})
	assert.Equal(t, 2, r.ActiveDays)
	assert.InDelta(t, 2.0, r.Activeness, 1e-9)
	assert.InDelta(t, 0.25, r.MediaRatio, 1e-9)
	assert.InDelta(t, 0.5, r.Loudness, 1e-9)
	assert.InDelta(t, 0.5, r.LoudWordRatio, 1e-9)
	assert.InDelta(t, 0.25, r.Naughtiness, 1e-9)
	assert.InDelta(t, 0.5, r.RGRatio, 1e-9)
	assert.InDelta(t, 2.0, r.RRRatio, 1e-9)
	assert.InDelta(t, 2.5, r.WordsPerMessage, 1e-9)
	assert.InDelta(t, 0.5, r.MessagesPerDay, 1e-9)

	words := Calculate(a, DaySpan{Days: 8}, RatioOptions{Loudness: LoudWords})
	assert.InDelta(t, 1.25, words.Loudness, 1e-9)

	pct := Calculate(a, DaySpan{Days: 8}, RatioOptions{Percent: true})
	assert.InDelta(t, 25.0, pct.MediaRatio, 1e-9)
	assert.InDelta(t, 50.0, pct.Loudness, 1e-9)
	assert.InDelta(t, 2.5, pct.WordsPerMessage, 1e-9, "per-message rates are not scaled")
}

func TestCalculate_ShareRatiosBounded(t *testing.T) {
	c := newTestCollector(t)
	run(t, c,
		msg(1, sender(1, "A"), day0, "DAMN IT"),
		msg(2, sender(1, "A"), day0, "damn heck damn"),
		msg(3, sender(2, "B"), day0, "calm words"),
	)
	span := GroupSpan(c.Group().Acc)
	for _, e := range append(c.Entities(), c.Group()) {
		r := Calculate(e.Acc, span, RatioOptions{})
		for _, v := range []float64{r.MediaRatio, r.Loudness, r.LoudWordRatio} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestGroupSpan(t *testing.T) {
	c := newTestCollector(t)
	run(t, c,
		msg(1, sender(1, "A"), day0, "x"),
		msg(2, sender(2, "B"), day0.Add(9*24*time.Hour), "y"),
	)
	span := GroupSpan(c.Group().Acc)
	assert.Equal(t, DaySpan{First: "2024-03-01", Last: "2024-03-10", Days: 10}, span)

	// A was active one day but is measured over the group's ten
	r := Calculate(c.Entity(1).Acc, span, RatioOptions{})
	assert.InDelta(t, 0.1, r.MessagesPerDay, 1e-9)

	assert.Equal(t, DaySpan{}, GroupSpan(NewAccumulator()))
}

func TestOutlierPolicy(t *testing.T) {
	a := NewAccumulator()
	a.MessageCount = 3
	a.DailyMessages = Multiset{"2024-03-01": 3}

	assert.False(t, OutlierPolicy{MinMessages: 10}.IsOutlier(a), "disabled policy never flags")
	assert.True(t, OutlierPolicy{Enabled: true, MinMessages: 10}.IsOutlier(a))
	assert.True(t, OutlierPolicy{Enabled: true, MaxMessages: 2}.IsOutlier(a))
	assert.True(t, OutlierPolicy{Enabled: true, MinActiveDays: 2}.IsOutlier(a))
	assert.False(t, OutlierPolicy{Enabled: true, MinMessages: 1, MinActiveDays: 1}.IsOutlier(a))
}
