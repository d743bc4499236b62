package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corey/chatstat/internal/domain/stats"
)

func record(id int64, name string, msgs, media int, outlier bool) Record {
	acc := stats.NewAccumulator()
	acc.MessageCount = msgs
	acc.MediaCount = media
	acc.DailyMessages = stats.Multiset{"2024-03-01": msgs}
	return Record{
		Entity:  &stats.Entity{ID: id, Name: name, Acc: acc},
		Ratios:  stats.Calculate(acc, stats.DaySpan{Days: 1}, stats.RatioOptions{}),
		Outlier: outlier,
	}
}

func TestRank_ByRatioStableOnTies(t *testing.T) {
	recs := []Record{
		record(3, "C", 10, 5, false), // 0.5
		record(1, "A", 4, 2, false),  // 0.5
		record(2, "B", 10, 9, false), // 0.9
	}
	got := Ranker{TopN: 10, ByRatio: true}.Rank(recs, Media)
	assert.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].UserID)
	assert.Equal(t, int64(3), got[1].UserID, "first observed wins the tie")
	assert.Equal(t, int64(1), got[2].UserID)
	assert.InDelta(t, 0.9, got[0].Value, 1e-9)
	assert.Equal(t, 9, got[0].Count)
}

func TestRank_ByCount(t *testing.T) {
	recs := []Record{
		record(1, "A", 4, 2, false),
		record(2, "B", 10, 3, false),
	}
	got := Ranker{TopN: 10}.Rank(recs, Media)
	assert.Equal(t, int64(2), got[0].UserID)
	assert.Equal(t, 3.0, got[0].Value)
}

func TestRank_ExcludesOutliersAndZeros(t *testing.T) {
	recs := []Record{
		record(1, "A", 1, 1, true),
		record(2, "B", 10, 0, false),
		record(3, "C", 10, 1, false),
	}
	got := Ranker{TopN: 10, ByRatio: true}.Rank(recs, Media)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].UserID)
}

func TestRank_ReactOnlyEntityNeedsCountMode(t *testing.T) {
	lurker := record(1, "L", 0, 0, false)
	lurker.Entity.Acc.ReactionsGivenCount = 50
	lurker.Ratios = stats.Calculate(lurker.Entity.Acc, stats.DaySpan{Days: 1}, stats.RatioOptions{})
	talker := record(2, "T", 10, 0, false)
	talker.Entity.Acc.ReactionsGivenCount = 5
	talker.Ratios = stats.Calculate(talker.Entity.Acc, stats.DaySpan{Days: 1}, stats.RatioOptions{})
	recs := []Record{lurker, talker}

	byRatio := Ranker{TopN: 10, ByRatio: true}.Rank(recs, Reacting)
	assert.Len(t, byRatio, 1)
	assert.Equal(t, int64(2), byRatio[0].UserID)
	assert.InDelta(t, 0.5, byRatio[0].Value, 1e-9)

	byCount := Ranker{TopN: 10}.Rank(recs, Reacting)
	assert.Len(t, byCount, 2)
	assert.Equal(t, int64(1), byCount[0].UserID)
	assert.Equal(t, 50.0, byCount[0].Value)
	assert.Equal(t, 0.0, byCount[0].Ratio)
}

func TestRank_TopN(t *testing.T) {
	var recs []Record
	for i := int64(1); i <= 5; i++ {
		recs = append(recs, record(i, "u", int(i), 0, false))
	}
	got := Ranker{TopN: 2}.Rank(recs, Active)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(5), got[0].UserID)
	assert.Equal(t, int64(4), got[1].UserID)
}

func TestRank_UnknownNameFallback(t *testing.T) {
	rec := record(9, "", 3, 3, false)
	got := Ranker{ByRatio: true}.Rank([]Record{rec}, Media)
	assert.Equal(t, "Unknown User", got[0].Name)
}

func TestRank_AllMetrics(t *testing.T) {
	all := Ranker{TopN: 3, ByRatio: true}.All([]Record{record(1, "A", 2, 1, false)})
	assert.Len(t, all, len(Metrics))
	assert.Len(t, all[Active], 1)
	assert.Empty(t, all[Cursing])
}

func TestTopCategories(t *testing.T) {
	got := TopCategories(map[string]stats.Multiset{
		"fruits": {"apple": 3, "kiwi": 1, "banana": 3},
		"empty":  {},
	}, 2)
	assert.Len(t, got, 1)
	assert.Equal(t, "apple", got["fruits"][0].Key)
	assert.Equal(t, "banana", got["fruits"][1].Key)
}
