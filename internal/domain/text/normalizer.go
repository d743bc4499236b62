// Package text implements the per-message text pipeline: normalization,
// tokenization, loudness detection and stopword filtering.
//
// Pipeline order (each step individually toggleable):
//  1. Transliterate to ASCII, or repair invalid UTF-8 with U+FFFD
//  2. Replace http\S+ runs with a single space
//  3. Fold accented letters to their base letter
//  4. Unwrap [name](proto://user?id=N) mentions to name
//  5. Lowercase
package text

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	urlRe     = regexp.MustCompile(`http\S+`)
	mentionRe = regexp.MustCompile(`\[([^\]]*)\]\([a-z][a-z0-9+.\-]*://user\?id=\d+\)`)
)

// Options toggles the normalization steps.
type Options struct {
	Transliterate   bool
	StripURLs       bool
	FoldAccents     bool
	UnwrapMentions  bool
	CaseInsensitive bool
}

// DefaultOptions mirrors the collector defaults: everything on except
// transliteration, which rewrites emoji and non-Latin scripts.
func DefaultOptions() Options {
	return Options{
		StripURLs:       true,
		FoldAccents:     true,
		UnwrapMentions:  true,
		CaseInsensitive: true,
	}
}

// Normalized carries the intermediate forms a caller needs from one pass.
type Normalized struct {
	// Raw is the repaired (or transliterated) text before any suppression.
	// Used for the channel transcript.
	Raw string
	// Cased is the fully cleaned text before case folding. Loudness is
	// evaluated on this form.
	Cased string
	// Text is the final form fed to the tokenizer and category matcher.
	Text string
}

// Step is a single normalization stage.
type Step func(string) string

// Normalizer applies a fixed pipeline of steps. It holds no mutable state
// and is safe for concurrent use.
type Normalizer struct {
	opts    Options
	decode  Step
	cleanup []Step
}

// NewNormalizer builds the pipeline for opts.
func NewNormalizer(opts Options) *Normalizer {
	n := &Normalizer{opts: opts, decode: RepairUTF8}
	if opts.Transliterate {
		n.decode = Transliterate
	}
	if opts.StripURLs {
		n.cleanup = append(n.cleanup, StripURLs)
	}
	if opts.FoldAccents {
		n.cleanup = append(n.cleanup, FoldAccents)
	}
	if opts.UnwrapMentions {
		n.cleanup = append(n.cleanup, UnwrapMentions)
	}
	return n
}

// Options returns the options the pipeline was built with.
func (n *Normalizer) Options() Options { return n.opts }

// Normalize runs raw through the pipeline. It never fails: undecodable
// bytes are replaced, not rejected.
func (n *Normalizer) Normalize(raw string) Normalized {
	out := Normalized{Raw: n.decode(raw)}
	s := out.Raw
	for _, step := range n.cleanup {
		s = step(s)
	}
	out.Cased = s
	if n.opts.CaseInsensitive {
		s = strings.ToLower(s)
	}
	out.Text = s
	return out
}

// RepairUTF8 replaces every ill-formed byte sequence with U+FFFD.
func RepairUTF8(s string) string {
	out, _, err := transform.String(runes.ReplaceIllFormed(), s)
	if err != nil {
		return strings.ToValidUTF8(s, "\uFFFD")
	}
	return out
}

// Transliterate maps s to its closest ASCII representation.
func Transliterate(s string) string {
	return unidecode.Unidecode(RepairUTF8(s))
}

// StripURLs replaces anything shaped like http\S+ with a single space.
func StripURLs(s string) string {
	if !strings.Contains(s, "http") {
		return s
	}
	return urlRe.ReplaceAllString(s, " ")
}

// UnwrapMentions rewrites [name](tg://user?id=123) to name.
func UnwrapMentions(s string) string {
	if !strings.Contains(s, "](") {
		return s
	}
	return mentionRe.ReplaceAllString(s, "$1")
}
