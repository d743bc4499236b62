package category

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// ExampleLookup is a starter lookup file, written by `chatstat config init`.
//
//go:embed lookup.example.yaml
var ExampleLookup []byte

// keyDelim is deliberately not "." so category names may contain dots.
const keyDelim = "::"

// Lookup is the parsed lookup file: the category table plus the stopword
// list used to hide words from top-word views.
type Lookup struct {
	Table        *Table
	IgnoredWords []string
}

// Load reads a YAML lookup file of the form
//
//	categories:
//	  fruits: [apple, banana]
//	  countries:
//	    - [united states, usa]   # canonical first
//	    - canada
//	ignored_words: [the, a]
//
// Categories are ordered by name. Errors wrap ErrEmptyTable or ErrInvalidEntry
// for content problems.
func Load(path string, opts Options) (*Lookup, error) {
	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load lookup %s: %w", path, err)
	}
	return fromKoanf(k, opts)
}

// Parse is Load over in-memory YAML.
func Parse(data []byte, opts Options) (*Lookup, error) {
	k := koanf.New(keyDelim)
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse lookup: %w", err)
	}
	return fromKoanf(k, opts)
}

func fromKoanf(k *koanf.Koanf, opts Options) (*Lookup, error) {
	raw := k.Raw()

	rawCats, ok := raw["categories"].(map[string]interface{})
	if !ok || len(rawCats) == 0 {
		return nil, ErrEmptyTable
	}

	names := make([]string, 0, len(rawCats))
	for name := range rawCats {
		names = append(names, name)
	}
	sort.Strings(names)

	cats := make([]Category, 0, len(names))
	for _, name := range names {
		list, ok := rawCats[name].([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: category %q must be a list", ErrInvalidEntry, name)
		}
		c := Category{Name: name}
		for i, item := range list {
			e, err := parseEntry(item)
			if err != nil {
				return nil, fmt.Errorf("category %q entry %d: %w", name, i, err)
			}
			c.Entries = append(c.Entries, e)
		}
		cats = append(cats, c)
	}

	table, err := NewTable(cats, opts)
	if err != nil {
		return nil, err
	}

	lookup := &Lookup{Table: table}
	if words, ok := raw["ignored_words"].([]interface{}); ok {
		for _, w := range words {
			s, err := scalar(w)
			if err != nil {
				return nil, fmt.Errorf("ignored_words: %w", err)
			}
			lookup.IgnoredWords = append(lookup.IgnoredWords, s)
		}
	}
	return lookup, nil
}

// parseEntry accepts a bare keyword or a list whose first element is canonical.
func parseEntry(item interface{}) (Entry, error) {
	list, ok := item.([]interface{})
	if !ok {
		s, err := scalar(item)
		if err != nil {
			return Entry{}, err
		}
		return NewEntry(s), nil
	}
	if len(list) == 0 {
		return Entry{}, fmt.Errorf("%w: empty alias list", ErrInvalidEntry)
	}
	parts := make([]string, 0, len(list))
	for _, v := range list {
		s, err := scalar(v)
		if err != nil {
			return Entry{}, err
		}
		parts = append(parts, s)
	}
	return NewEntry(parts[0], parts[1:]...), nil
}

// scalar converts a YAML scalar to a keyword. Integers are accepted so a
// numbers category does not need quoting.
func scalar(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	}
	return "", fmt.Errorf("%w: %v is not a string", ErrInvalidEntry, strings.TrimSpace(fmt.Sprint(v)))
}
