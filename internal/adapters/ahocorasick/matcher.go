// Package ahocorasick provides multi-pattern string matching using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching.
package ahocorasick

import (
	"sort"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/chatstat/internal/domain/category"
	"github.com/corey/chatstat/internal/ports"
)

// TextMatch represents a match from the TextScanner with byte offsets.
type TextMatch struct {
	PatternIndex int // index into the original patterns slice
	Start        int // byte offset start (inclusive)
	End          int // byte offset end (exclusive)
}

// TextScanner wraps an Aho-Corasick automaton and reports every occurrence
// of every pattern, overlapping ones included.
type TextScanner struct {
	automaton aho.AhoCorasick
	patterns  []string
}

// NewTextScanner builds a text scanner from the given patterns.
func NewTextScanner(patterns []string) *TextScanner {
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	p := make([]string, len(patterns))
	copy(p, patterns)
	return &TextScanner{
		automaton: builder.Build(p),
		patterns:  p,
	}
}

// Scan finds all pattern matches in content and returns them with byte offsets.
func (s *TextScanner) Scan(content []byte) []TextMatch {
	if len(s.patterns) == 0 || len(content) == 0 {
		return nil
	}
	iter := s.automaton.IterOverlappingByte(content)
	var matches []TextMatch
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		matches = append(matches, TextMatch{
			PatternIndex: m.Pattern(),
			Start:        m.Start(),
			End:          m.End(),
		})
	}
	return matches
}

// PatternCount returns the number of patterns in the automaton.
func (s *TextScanner) PatternCount() int {
	return len(s.patterns)
}

// Pattern returns the pattern string at the given index.
func (s *TextScanner) Pattern(idx int) string {
	if idx < 0 || idx >= len(s.patterns) {
		return ""
	}
	return s.patterns[idx]
}

// =============================================================================
// CategoryMatcher: one automaton for the whole lookup table
//
// Every distinct variant string is a single pattern. A pattern may serve many
// entries (the same keyword in two categories, or one alias shared by two
// entries), so each pattern carries a list of (entry, priority) refs.
//
// Per entry, the counting rule is the regex one: scan left to right, at each
// position take the highest-priority variant that sits on word boundaries at
// both ends, then resume after it. Matches within an entry never overlap.
// =============================================================================

type patternRef struct {
	entry    int
	priority int // variant index within the entry; lower wins
}

type entryInfo struct {
	category  string
	canonical string
}

type candidate struct {
	start, end, priority int
}

// CategoryMatcher implements ports.CategoryMatcher with a shared automaton.
// The automaton is read-only after construction; Match is safe for
// concurrent use.
type CategoryMatcher struct {
	scanner *TextScanner
	refs    [][]patternRef // pattern index -> entries it serves
	entries []entryInfo
}

// NewCategoryMatcher compiles every variant of every table entry.
func NewCategoryMatcher(t *category.Table) *CategoryMatcher {
	m := &CategoryMatcher{}
	index := make(map[string]int)
	var patterns []string

	for _, c := range t.Categories {
		for _, e := range c.Entries {
			id := len(m.entries)
			m.entries = append(m.entries, entryInfo{category: c.Name, canonical: e.Canonical})
			for prio, v := range e.Variants() {
				p, ok := index[v]
				if !ok {
					p = len(patterns)
					index[v] = p
					patterns = append(patterns, v)
					m.refs = append(m.refs, nil)
				}
				m.refs[p] = append(m.refs[p], patternRef{entry: id, priority: prio})
			}
		}
	}

	m.scanner = NewTextScanner(patterns)
	return m
}

// Match implements ports.CategoryMatcher.
func (m *CategoryMatcher) Match(text string) ports.CategoryCounts {
	counts := make(ports.CategoryCounts)
	if text == "" {
		return counts
	}

	perEntry := make(map[int][]candidate)
	for _, tm := range m.scanner.Scan([]byte(text)) {
		if !category.AtBoundary(text, tm.Start) || !category.AtBoundary(text, tm.End) {
			continue
		}
		for _, r := range m.refs[tm.PatternIndex] {
			perEntry[r.entry] = append(perEntry[r.entry], candidate{
				start:    tm.Start,
				end:      tm.End,
				priority: r.priority,
			})
		}
	}

	for id, cands := range perEntry {
		if n := countNonOverlapping(cands); n > 0 {
			e := m.entries[id]
			counts.Add(e.category, e.canonical, n)
		}
	}
	return counts
}

// countNonOverlapping applies leftmost-first selection: earliest start wins,
// ties go to the lowest priority, and the scan resumes at the chosen end.
func countNonOverlapping(cands []candidate) int {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].start != cands[j].start {
			return cands[i].start < cands[j].start
		}
		return cands[i].priority < cands[j].priority
	})
	n, resume := 0, 0
	for _, c := range cands {
		if c.start < resume {
			continue
		}
		n++
		resume = c.end
	}
	return n
}

// PatternCount returns the number of distinct variant strings compiled.
func (m *CategoryMatcher) PatternCount() int {
	return m.scanner.PatternCount()
}
