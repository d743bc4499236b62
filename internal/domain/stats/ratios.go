package stats

import (
	"math"
	"time"
)

// LoudnessMode selects the counter that feeds the loudness ratio.
type LoudnessMode string

const (
	// LoudMessages: loudness = loud_message_count / message_count (default).
	LoudMessages LoudnessMode = "messages"
	// LoudWords: loudness = loud_word_count / message_count.
	LoudWords LoudnessMode = "words"
)

// Ratios are the derived, normalized metrics of one entity.
type Ratios struct {
	ActiveDays      int
	Activeness      float64 // messages per active day
	MediaRatio      float64
	Loudness        float64
	LoudWordRatio   float64 // loud words / words
	Naughtiness     float64
	RGRatio         float64
	RRRatio         float64
	WordsPerMessage float64
	MessagesPerDay  float64 // over the group-wide day span
	Sentiment       *float64
}

// RatioOptions configures ratio derivation.
type RatioOptions struct {
	Loudness LoudnessMode
	// Percent scales the share ratios (media, loudness, loud words,
	// naughtiness) to 0..100.
	Percent bool
}

// DaySpan is the inclusive calendar span of the whole group's activity.
type DaySpan struct {
	First string
	Last  string
	Days  int
}

// GroupSpan derives the day span from the group's daily histogram.
// Every entity's messages_per_day uses this span so values are comparable.
func GroupSpan(group *Accumulator) DaySpan {
	first, last := group.DailyMessages.Span()
	if first == "" {
		return DaySpan{}
	}
	span := DaySpan{First: first, Last: last, Days: 1}
	f, err1 := time.Parse(DateLayout, first)
	l, err2 := time.Parse(DateLayout, last)
	if err1 == nil && err2 == nil {
		span.Days = int(l.Sub(f).Hours()/24) + 1
	}
	return span
}

// div returns num/den, or 0 when den is 0 or the result is not finite.
func div(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Calculate derives ratios from raw counters. Every ratio is 0 when its
// denominator is 0.
func Calculate(a *Accumulator, span DaySpan, opts RatioOptions) Ratios {
	msgs := float64(a.MessageCount)
	r := Ratios{
		ActiveDays:      a.ActiveDays(),
		Activeness:      div(msgs, float64(a.ActiveDays())),
		MediaRatio:      div(float64(a.MediaCount), msgs),
		LoudWordRatio:   div(float64(a.LoudWordCount), float64(a.WordCount)),
		Naughtiness:     div(float64(a.CurseCount), msgs),
		RGRatio:         div(float64(a.ReactionsGivenCount), msgs),
		RRRatio:         div(float64(a.ReactionsReceivedCount), msgs),
		WordsPerMessage: div(float64(a.WordCount), msgs),
		MessagesPerDay:  div(msgs, float64(span.Days)),
		Sentiment:       a.MeanSentiment(),
	}
	if opts.Loudness == LoudWords {
		r.Loudness = div(float64(a.LoudWordCount), msgs)
	} else {
		r.Loudness = div(float64(a.LoudMessageCount), msgs)
	}
	if opts.Percent {
		r.MediaRatio *= 100
		r.Loudness *= 100
		r.LoudWordRatio *= 100
		r.Naughtiness *= 100
	}
	return r
}

// OutlierPolicy bounds which entities may enter ranking pools.
// A zero max means unbounded.
type OutlierPolicy struct {
	Enabled       bool
	MinMessages   int
	MaxMessages   int
	MinActiveDays int
	MaxActiveDays int
}

// IsOutlier reports whether a falls outside the configured bounds. Always
// false when the policy is disabled. Outliers keep their own record and
// still count toward group totals.
func (p OutlierPolicy) IsOutlier(a *Accumulator) bool {
	if !p.Enabled {
		return false
	}
	return outside(a.MessageCount, p.MinMessages, p.MaxMessages) ||
		outside(a.ActiveDays(), p.MinActiveDays, p.MaxActiveDays)
}

func outside(v, lo, hi int) bool {
	return v < lo || (hi > 0 && v > hi)
}
