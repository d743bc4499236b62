// Package report assembles the exported records of an analysis run from a
// finished Collector.
package report

import (
	"time"

	"github.com/corey/chatstat/internal/domain/ranking"
	"github.com/corey/chatstat/internal/domain/stats"
	"github.com/corey/chatstat/internal/ports"
)

// Limits are the per-field top-N truncation limits. Zero keeps everything.
type Limits struct {
	UserWords        int
	UserReactions    int
	UserCategories   int
	UserActiveDays   int
	GlobalWords      int
	GlobalReactions  int
	GlobalCategories int
	GlobalRanking    int
	GlobalDays       int
}

// DefaultLimits are the collector's historical limits.
func DefaultLimits() Limits {
	return Limits{
		UserWords:        50,
		UserReactions:    20,
		UserCategories:   1000,
		UserActiveDays:   30,
		GlobalWords:      100,
		GlobalReactions:  20,
		GlobalCategories: 1000,
		GlobalRanking:    50,
		GlobalDays:       30,
	}
}

// Builder turns collector state into report records.
type Builder struct {
	Limits   Limits
	Ratios   stats.RatioOptions
	Outliers stats.OutlierPolicy
	ByRatio  bool
}

// Build derives ratios for every entity, ranks them and assembles the
// report. Entities keep first-observed order. The collector must have run
// its category pass.
func (b Builder) Build(c *stats.Collector, runID string, now time.Time) *ports.Report {
	group := c.Group().Acc
	span := stats.GroupSpan(group)

	entities := c.Entities()
	records := make([]ranking.Record, 0, len(entities))
	users := make([]*ports.UserStats, 0, len(entities))
	for _, e := range entities {
		rec := ranking.Record{
			Entity:  e,
			Ratios:  stats.Calculate(e.Acc, span, b.Ratios),
			Outlier: b.Outliers.IsOutlier(e.Acc),
		}
		records = append(records, rec)
		users = append(users, b.userStats(rec))
	}

	ranker := ranking.Ranker{TopN: b.Limits.GlobalRanking, ByRatio: b.ByRatio, Loudness: b.Ratios.Loudness}
	boards := ranker.All(records)
	gr := stats.Calculate(group, span, b.Ratios)

	global := &ports.GlobalStats{
		RunID:       runID,
		GeneratedAt: now.UTC(),
		FirstDay:    span.First,
		LastDay:     span.Last,
		UserCount:   len(entities),

		MessageCount:           group.MessageCount,
		WordCount:              group.WordCount,
		LetterCount:            group.LetterCount,
		MediaCount:             group.MediaCount,
		LoudMessageCount:       group.LoudMessageCount,
		LoudWordCount:          group.LoudWordCount,
		CurseCount:             group.CurseCount,
		ReactionsReceivedCount: group.ReactionsReceivedCount,

		Activeness:      gr.Activeness,
		MediaRatio:      gr.MediaRatio,
		Loudness:        gr.Loudness,
		LoudWordRatio:   gr.LoudWordRatio,
		Naughtiness:     gr.Naughtiness,
		WordsPerMessage: gr.WordsPerMessage,
		MessagesPerDay:  gr.MessagesPerDay,
		Sentiment:       gr.Sentiment,

		TopWords:      group.WordCounter.Top(b.Limits.GlobalWords),
		TopCategories: ranking.TopCategories(group.CategoryWords, b.Limits.GlobalCategories),
		TopReactions:  group.ReactionsReceived.Top(b.Limits.GlobalReactions),
		TopDays:       group.DailyMessages.Top(b.Limits.GlobalDays),

		TopActiveUsers:   boards[ranking.Active],
		TopMediaUsers:    boards[ranking.Media],
		TopLoudUsers:     boards[ranking.Loud],
		TopCursingUsers:  boards[ranking.Cursing],
		TopReactingUsers: boards[ranking.Reacting],
		TopReactedUsers:  boards[ranking.Reacted],
	}

	return &ports.Report{Global: global, Users: users}
}

func (b Builder) userStats(rec ranking.Record) *ports.UserStats {
	e, a, r := rec.Entity, rec.Entity.Acc, rec.Ratios
	return &ports.UserStats{
		UserID:  e.ID,
		Name:    e.DisplayName(),
		Outlier: rec.Outlier,

		MessageCount:           a.MessageCount,
		WordCount:              a.WordCount,
		LetterCount:            a.LetterCount,
		MediaCount:             a.MediaCount,
		LoudMessageCount:       a.LoudMessageCount,
		LoudWordCount:          a.LoudWordCount,
		CurseCount:             a.CurseCount,
		ReactionsGivenCount:    a.ReactionsGivenCount,
		ReactionsReceivedCount: a.ReactionsReceivedCount,
		ActiveDays:             r.ActiveDays,

		Activeness:      r.Activeness,
		MediaRatio:      r.MediaRatio,
		Loudness:        r.Loudness,
		LoudWordRatio:   r.LoudWordRatio,
		Naughtiness:     r.Naughtiness,
		RGRatio:         r.RGRatio,
		RRRatio:         r.RRRatio,
		WordsPerMessage: r.WordsPerMessage,
		MessagesPerDay:  r.MessagesPerDay,
		Sentiment:       r.Sentiment,

		TopActiveDays:        a.DailyMessages.Top(b.Limits.UserActiveDays),
		TopCategoryWords:     ranking.TopCategories(a.CategoryWords, b.Limits.UserCategories),
		TopWords:             a.WordCounter.Top(b.Limits.UserWords),
		TopReactionsGiven:    a.ReactionsGiven.Top(b.Limits.UserReactions),
		TopReactionsReceived: a.ReactionsReceived.Top(b.Limits.UserReactions),
	}
}
