package category

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/corey/chatstat/internal/ports"
)

// RegexMatcher counts mentions with one alternation pattern per entry:
// \b(?:variant1|variant2|...)\b. Alternatives are tried in variant order at
// each position, so the first listed phrase wins over its shorter aliases.
//
// \b here is ASCII-only (Go RE2 semantics). Use the Aho-Corasick matcher for
// Unicode word boundaries.
type RegexMatcher struct {
	entries []regexEntry
}

type regexEntry struct {
	category  string
	canonical string
	re        *regexp.Regexp
}

// NewRegexMatcher compiles one pattern per table entry.
func NewRegexMatcher(t *Table) (*RegexMatcher, error) {
	m := &RegexMatcher{entries: make([]regexEntry, 0, t.EntryCount())}
	for _, c := range t.Categories {
		for _, e := range c.Entries {
			alts := make([]string, len(e.variants))
			for i, v := range e.variants {
				alts[i] = regexp.QuoteMeta(v)
			}
			re, err := regexp.Compile(`\b(?:` + strings.Join(alts, "|") + `)\b`)
			if err != nil {
				return nil, fmt.Errorf("compile %s/%s: %w", c.Name, e.Canonical, err)
			}
			m.entries = append(m.entries, regexEntry{category: c.Name, canonical: e.Canonical, re: re})
		}
	}
	return m, nil
}

// Match implements ports.CategoryMatcher. Safe for concurrent use.
func (m *RegexMatcher) Match(text string) ports.CategoryCounts {
	counts := make(ports.CategoryCounts)
	if text == "" {
		return counts
	}
	for _, e := range m.entries {
		if n := len(e.re.FindAllStringIndex(text, -1)); n > 0 {
			counts.Add(e.category, e.canonical, n)
		}
	}
	return counts
}
