// Package category holds the keyword category lookup table and the
// regex-alternation matcher over it.
//
// A table is an ordered list of categories. Each category holds keyword
// entries: a canonical form plus aliases. Every alias, and every plural
// variant when pluralization is on, folds into the canonical form. Entries
// are fixed once the table is built; matchers never mutate them.
package category

import (
	"errors"
	"fmt"
	"strings"
)

// Curses is the reserved category whose mentions feed curse_count.
const Curses = "curses"

// Sentinel separates messages in an entity's accumulated text buffer.
// Aliases may not contain a newline, so no variant can match across it.
const Sentinel = "\n\n"

var (
	// ErrEmptyTable is returned when no category holds any entry.
	ErrEmptyTable = errors.New("category table is empty")
	// ErrInvalidEntry is returned for malformed keyword entries.
	ErrInvalidEntry = errors.New("invalid category entry")
)

// Entry is one keyword with its aliases.
type Entry struct {
	Canonical string
	Aliases   []string // excludes Canonical

	variants []string
}

// NewEntry builds an entry; the canonical form is the first alias.
func NewEntry(canonical string, aliases ...string) Entry {
	return Entry{Canonical: canonical, Aliases: aliases}
}

// Variants returns every string that counts toward Canonical, in match
// priority order. Only valid on entries of a built Table.
func (e Entry) Variants() []string { return e.variants }

// Category is a named set of keyword entries.
type Category struct {
	Name    string
	Entries []Entry
}

// Options controls how entries are expanded at build time.
type Options struct {
	// Pluralize adds naive plural forms of every alias.
	Pluralize bool
	// Fold is applied to every alias before expansion so aliases take the
	// same shape as normalized message text. Nil leaves aliases untouched.
	Fold func(string) string
}

// Table is a validated, expanded category lookup table.
type Table struct {
	Categories []Category
	opts       Options
}

// NewTable validates cats and expands every entry's variants.
// Errors wrap ErrEmptyTable or ErrInvalidEntry.
func NewTable(cats []Category, opts Options) (*Table, error) {
	t := &Table{opts: opts}
	total := 0
	seenCat := make(map[string]bool, len(cats))

	for _, c := range cats {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category with empty name", ErrInvalidEntry)
		}
		if seenCat[name] {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidEntry, name)
		}
		seenCat[name] = true

		built := Category{Name: name, Entries: make([]Entry, 0, len(c.Entries))}
		canonicals := make(map[string]bool, len(c.Entries))
		for i, e := range c.Entries {
			be, err := buildEntry(e, opts)
			if err != nil {
				return nil, fmt.Errorf("category %q entry %d: %w", name, i, err)
			}
			if canonicals[be.Canonical] {
				return nil, fmt.Errorf("%w: category %q lists %q twice", ErrInvalidEntry, name, be.Canonical)
			}
			canonicals[be.Canonical] = true
			built.Entries = append(built.Entries, be)
		}
		total += len(built.Entries)
		t.Categories = append(t.Categories, built)
	}

	if total == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}

func buildEntry(e Entry, opts Options) (Entry, error) {
	all := append([]string{e.Canonical}, e.Aliases...)
	folded := make([]string, 0, len(all))
	for _, a := range all {
		if strings.Contains(a, "\n") {
			return Entry{}, fmt.Errorf("%w: %q contains a newline", ErrInvalidEntry, a)
		}
		raw := a
		if opts.Fold != nil {
			a = opts.Fold(a)
		}
		a = strings.TrimSpace(a)
		if a == "" {
			return Entry{}, fmt.Errorf("%w: empty keyword %q", ErrInvalidEntry, raw)
		}
		if strings.IndexFunc(a, IsWordRune) < 0 {
			return Entry{}, fmt.Errorf("%w: %q has no word characters after folding", ErrInvalidEntry, raw)
		}
		folded = append(folded, a)
	}

	out := Entry{Canonical: folded[0], Aliases: folded[1:]}
	seen := make(map[string]bool, len(folded)*2)
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			out.variants = append(out.variants, v)
		}
	}
	for _, a := range folded {
		add(a)
		if opts.Pluralize {
			add(Pluralize(a))
		}
	}
	return out, nil
}

// Pluralize applies the naive English rules: words ending in "s" are left
// alone, a trailing "y" becomes "ies", anything else gains an "s".
func Pluralize(word string) string {
	switch {
	case strings.HasSuffix(word, "s"), strings.HasSuffix(word, "S"):
		return word
	case strings.HasSuffix(word, "y"):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(word, "Y"):
		return word[:len(word)-1] + "IES"
	}
	return word + "s"
}

// Names returns the category names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the table defines a category.
func (t *Table) Has(name string) bool {
	for _, c := range t.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// EntryCount returns the total number of keyword entries across categories.
func (t *Table) EntryCount() int {
	n := 0
	for _, c := range t.Categories {
		n += len(c.Entries)
	}
	return n
}
