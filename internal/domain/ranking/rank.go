// Package ranking turns per-entity ratio records into top-N leaderboards and
// truncates merged histograms.
package ranking

import (
	"sort"

	"github.com/corey/chatstat/internal/domain/stats"
	"github.com/corey/chatstat/internal/ports"
)

// Metric names a leaderboard.
type Metric string

const (
	Active   Metric = "active"
	Media    Metric = "media"
	Loud     Metric = "loud"
	Cursing  Metric = "cursing"
	Reacting Metric = "reacting"
	Reacted  Metric = "reacted"
)

// Metrics lists every leaderboard in export order.
var Metrics = []Metric{Active, Media, Loud, Cursing, Reacting, Reacted}

// Record is one entity's input to ranking.
type Record struct {
	Entity  *stats.Entity
	Ratios  stats.Ratios
	Outlier bool
}

// Ranker builds leaderboards.
type Ranker struct {
	TopN int
	// ByRatio sorts on the ratio; otherwise on the raw count.
	ByRatio bool
	// Loudness picks which counter backs the loud leaderboard's count.
	Loudness stats.LoudnessMode
}

// values returns the ratio and raw count behind metric m.
func (r Ranker) values(rec Record, m Metric) (float64, int) {
	a := rec.Entity.Acc
	switch m {
	case Active:
		return rec.Ratios.Activeness, a.MessageCount
	case Media:
		return rec.Ratios.MediaRatio, a.MediaCount
	case Loud:
		if r.Loudness == stats.LoudWords {
			return rec.Ratios.Loudness, a.LoudWordCount
		}
		return rec.Ratios.Loudness, a.LoudMessageCount
	case Cursing:
		return rec.Ratios.Naughtiness, a.CurseCount
	case Reacting:
		return rec.Ratios.RGRatio, a.ReactionsGivenCount
	case Reacted:
		return rec.Ratios.RRRatio, a.ReactionsReceivedCount
	}
	return 0, 0
}

// Rank returns the top entities for m, highest first. Outliers and entities
// with a zero sort value are left out of the pool. Ties keep input order,
// so callers pass records in first-observed order.
//
// Every ratio is per message sent, so with ByRatio an entity that only
// reacts (zero messages) has a zero reacting ratio and is not ranked. A
// board never mixes ratios and raw counts; rank by count to include such
// entities.
func (r Ranker) Rank(records []Record, m Metric) []ports.RankedUser {
	pool := make([]ports.RankedUser, 0, len(records))
	for _, rec := range records {
		if rec.Outlier || rec.Entity.Group {
			continue
		}
		ratio, count := r.values(rec, m)
		value := float64(count)
		if r.ByRatio {
			value = ratio
		}
		if value <= 0 {
			continue
		}
		pool = append(pool, ports.RankedUser{
			UserID: rec.Entity.ID,
			Name:   rec.Entity.DisplayName(),
			Value:  value,
			Ratio:  ratio,
			Count:  count,
		})
	}

	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Value > pool[j].Value })
	if r.TopN > 0 && len(pool) > r.TopN {
		pool = pool[:r.TopN]
	}
	return pool
}

// All builds every leaderboard.
func (r Ranker) All(records []Record) map[Metric][]ports.RankedUser {
	out := make(map[Metric][]ports.RankedUser, len(Metrics))
	for _, m := range Metrics {
		out[m] = r.Rank(records, m)
	}
	return out
}

// TopCategories truncates each category histogram to n entries.
func TopCategories(cats map[string]stats.Multiset, n int) map[string][]ports.Count {
	out := make(map[string][]ports.Count, len(cats))
	for name, ms := range cats {
		if len(ms) > 0 {
			out[name] = ms.Top(n)
		}
	}
	return out
}
