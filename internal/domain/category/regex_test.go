package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/chatstat/internal/ports"
)

func mustTable(t *testing.T, opts Options, cats ...Category) *Table {
	t.Helper()
	tbl, err := NewTable(cats, opts)
	require.NoError(t, err)
	return tbl
}

func mustRegex(t *testing.T, tbl *Table) *RegexMatcher {
	t.Helper()
	m, err := NewRegexMatcher(tbl)
	require.NoError(t, err)
	return m
}

func TestRegexMatcher_AliasesCollapse(t *testing.T) {
	tbl := mustTable(t, Options{Fold: lower},
		Category{Name: "countries", Entries: []Entry{NewEntry("usa", "america")}})
	got := mustRegex(t, tbl).Match("i love the usa and america both")
	assert.Equal(t, ports.CategoryCounts{"countries": {"usa": 2}}, got)
}

func TestRegexMatcher_LongestFirst(t *testing.T) {
	tbl := mustTable(t, Options{},
		Category{Name: "countries", Entries: []Entry{NewEntry("united states", "usa")}})
	got := mustRegex(t, tbl).Match("usa is the united states")
	assert.Equal(t, 2, got["countries"]["united states"])
}

func TestRegexMatcher_NoDoubleCountOfShorterAlias(t *testing.T) {
	tbl := mustTable(t, Options{},
		Category{Name: "countries", Entries: []Entry{NewEntry("united states of america", "united states", "usa")}})
	got := mustRegex(t, tbl).Match("the united states of america, the united states, usa")
	assert.Equal(t, 3, got["countries"]["united states of america"])
}

func TestRegexMatcher_WordBoundaries(t *testing.T) {
	tbl := mustTable(t, Options{},
		Category{Name: "animals", Entries: []Entry{NewEntry("cat")}})
	got := mustRegex(t, tbl).Match("cat concatenate cats cat_food cat.")
	assert.Equal(t, 2, got["animals"]["cat"])
}

func TestRegexMatcher_Plurals(t *testing.T) {
	tbl := mustTable(t, Options{Pluralize: true},
		Category{Name: "fruits", Entries: []Entry{NewEntry("cherry"), NewEntry("apple")}})
	got := mustRegex(t, tbl).Match("cherries apple apples cherry")
	assert.Equal(t, 2, got["fruits"]["cherry"])
	assert.Equal(t, 2, got["fruits"]["apple"])
}

func TestRegexMatcher_CategoriesIndependent(t *testing.T) {
	tbl := mustTable(t, Options{},
		Category{Name: "fruits", Entries: []Entry{NewEntry("apple")}},
		Category{Name: "companies", Entries: []Entry{NewEntry("apple")}})
	got := mustRegex(t, tbl).Match("apple")
	assert.Equal(t, 1, got["fruits"]["apple"])
	assert.Equal(t, 1, got["companies"]["apple"])
}

func TestRegexMatcher_SentinelSeparates(t *testing.T) {
	tbl := mustTable(t, Options{},
		Category{Name: "phrases", Entries: []Entry{NewEntry("good night")}})
	got := mustRegex(t, tbl).Match("good" + Sentinel + "night" + Sentinel + "good night" + Sentinel)
	assert.Equal(t, 1, got["phrases"]["good night"])
}

func TestRegexMatcher_Empty(t *testing.T) {
	tbl := mustTable(t, Options{},
		Category{Name: "x", Entries: []Entry{NewEntry("a")}})
	assert.Empty(t, mustRegex(t, tbl).Match(""))
	assert.Empty(t, mustRegex(t, tbl).Match("b c d"))
}

func TestRegexMatcher_QuotesMeta(t *testing.T) {
	tbl := mustTable(t, Options{},
		Category{Name: "x", Entries: []Entry{NewEntry("a.b")}})
	got := mustRegex(t, tbl).Match("a.b axb")
	assert.Equal(t, 1, got["x"]["a.b"])
}
