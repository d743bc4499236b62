package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/corey/chatstat/internal/adapters/ahocorasick"
	"github.com/corey/chatstat/internal/adapters/sentiment"
	"github.com/corey/chatstat/internal/config"
	"github.com/corey/chatstat/internal/domain/category"
	"github.com/corey/chatstat/internal/domain/report"
	"github.com/corey/chatstat/internal/domain/stats"
	"github.com/corey/chatstat/internal/domain/text"
	"github.com/corey/chatstat/internal/ports"
)

// Pipeline is the analysis engine built once from configuration and run
// any number of times. Every run starts from empty accumulators.
type Pipeline struct {
	Normalizer *text.Normalizer
	Tokenizer  *text.Tokenizer
	Lookup     *category.Lookup
	Matcher    ports.CategoryMatcher
	// Scorer is nil unless sentiment is enabled.
	Scorer  ports.SentimentScorer
	Builder report.Builder

	location       *time.Location
	countReactions bool
	workers        int
	censusLimit    int
	log            zerolog.Logger

	now   func() time.Time
	runID func() string
}

// RunOptions are the per-run collaborators.
type RunOptions struct {
	Transcript ports.TranscriptSink // nil: no channel log
	Metrics    stats.Recorder       // nil: not recorded
	Census     bool                 // also build the whole-chat word census
}

// NewPipeline builds every component from cfg. lookupPath names the
// category table file; an empty path or a missing default file falls back
// to the built-in example table. Configuration errors are returned here,
// before any message is read.
func NewPipeline(cfg *config.Config, lookupPath string, log zerolog.Logger) (*Pipeline, error) {
	a := cfg.Analysis

	norm := text.NewNormalizer(text.Options{
		Transliterate:   a.Transliterate,
		StripURLs:       a.StripURLs,
		FoldAccents:     a.FoldAccents,
		UnwrapMentions:  a.UnwrapMentions,
		CaseInsensitive: a.CaseInsensitive,
	})

	// Aliases and ignored words are folded exactly like message text so
	// both sides of a comparison share one shape.
	fold := func(s string) string { return norm.Normalize(s).Text }
	opts := category.Options{
		Pluralize: a.Pluralize,
		Fold:      fold,
	}
	lookup, err := loadLookup(lookupPath, cfg.Paths.Lookup != "", opts)
	if err != nil {
		return nil, err
	}

	var stop text.Stopwords
	if a.FilterStopwords {
		ignored := make([]string, len(lookup.IgnoredWords))
		for i, w := range lookup.IgnoredWords {
			ignored[i] = fold(w)
		}
		stop = text.NewStopwords(ignored)
	}

	var matcher ports.CategoryMatcher
	switch a.Matcher {
	case config.EngineRegex:
		m, err := category.NewRegexMatcher(lookup.Table)
		if err != nil {
			return nil, fmt.Errorf("build regex matcher: %w", err)
		}
		matcher = m
	default:
		matcher = ahocorasick.NewCategoryMatcher(lookup.Table)
	}

	p := &Pipeline{
		Normalizer: norm,
		Tokenizer:  text.NewTokenizer(a.MinWordLength, stop),
		Lookup:     lookup,
		Matcher:    matcher,
		Builder: report.Builder{
			Limits: report.Limits{
				UserWords:        cfg.Limits.UserWords,
				UserReactions:    cfg.Limits.UserReactions,
				UserCategories:   cfg.Limits.UserCategories,
				UserActiveDays:   cfg.Limits.UserActiveDays,
				GlobalWords:      cfg.Limits.GlobalWords,
				GlobalReactions:  cfg.Limits.GlobalReactions,
				GlobalCategories: cfg.Limits.GlobalCategories,
				GlobalRanking:    cfg.Limits.GlobalRanking,
				GlobalDays:       cfg.Limits.GlobalDays,
			},
			Ratios: stats.RatioOptions{
				Loudness: stats.LoudnessMode(a.Loudness),
				Percent:  a.Percentages,
			},
			Outliers: stats.OutlierPolicy{
				Enabled:       cfg.Outliers.Enabled,
				MinMessages:   cfg.Outliers.MinMessages,
				MaxMessages:   cfg.Outliers.MaxMessages,
				MinActiveDays: cfg.Outliers.MinActiveDays,
				MaxActiveDays: cfg.Outliers.MaxActiveDays,
			},
			ByRatio: cfg.Ranking.ByRatio,
		},
		location:       cfg.Location(),
		countReactions: a.CountReactions,
		workers:        a.Workers,
		censusLimit:    cfg.Limits.CensusWords,
		log:            log.With().Str("component", "pipeline").Logger(),
		now:            time.Now,
		runID:          func() string { return uuid.NewString() },
	}

	// Sentiment is a capability resolved here, once.
	if cfg.Sentiment.Enabled {
		p.Scorer = sentiment.NewLexicon(sentiment.Options{
			Positive: cfg.Sentiment.Positive,
			Negative: cfg.Sentiment.Negative,
			Replace:  cfg.Sentiment.Replace,
		})
	}

	p.log.Debug().
		Int("categories", len(lookup.Table.Categories)).
		Int("entries", lookup.Table.EntryCount()).
		Str("matcher", a.Matcher).
		Bool("sentiment", p.Scorer != nil).
		Msg("pipeline ready")
	return p, nil
}

// loadLookup reads the category table. A missing file is only an error
// when the user named it explicitly.
func loadLookup(path string, explicit bool, opts category.Options) (*category.Lookup, error) {
	if path != "" {
		_, statErr := os.Stat(path)
		if statErr == nil || explicit {
			l, err := category.Load(path, opts)
			if err != nil {
				return nil, fmt.Errorf("category table: %w", err)
			}
			return l, nil
		}
		if !errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("category table: %w", statErr)
		}
	}
	l, err := category.Parse(category.ExampleLookup, opts)
	if err != nil {
		return nil, fmt.Errorf("built-in category table: %w", err)
	}
	return l, nil
}

// Run consumes src once and returns the finished report: the per-message
// pass, the batch category pass, then ratios and rankings.
func (p *Pipeline) Run(ctx context.Context, src ports.MessageSource, opts RunOptions) (*ports.Report, error) {
	start := p.now()
	c := stats.NewCollector(stats.Config{
		Normalizer:     p.Normalizer,
		Tokenizer:      p.Tokenizer,
		Matcher:        p.Matcher,
		Scorer:         p.Scorer,
		Transcript:     opts.Transcript,
		Metrics:        opts.Metrics,
		Logger:         p.log,
		Location:       p.location,
		CountReactions: p.countReactions,
		Workers:        p.workers,
	})

	var census *report.Census
	if opts.Census {
		census = report.NewCensus(p.Normalizer, p.Tokenizer)
	}

	err := src.Messages(ctx, func(m *ports.Message) error {
		c.Observe(ctx, m)
		if census != nil {
			census.Observe(m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}

	if err := c.Analyze(ctx); err != nil {
		return nil, fmt.Errorf("category pass: %w", err)
	}

	r := p.Builder.Build(c, p.runID(), p.now())
	if census != nil {
		r.Census = p.censusResult(census)
	}

	p.log.Info().
		Str("run_id", r.Global.RunID).
		Int("messages", r.Global.MessageCount).
		Int("users", r.Global.UserCount).
		Dur("elapsed", p.now().Sub(start)).
		Msg("analysis complete")
	return r, nil
}

// Census runs only the word census over src.
func (p *Pipeline) Census(ctx context.Context, src ports.MessageSource) (*ports.WordCensus, error) {
	census := report.NewCensus(p.Normalizer, p.Tokenizer)
	if err := src.Messages(ctx, func(m *ports.Message) error {
		census.Observe(m)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	return p.censusResult(census), nil
}

// censusResult applies limits.census_words to each view.
func (p *Pipeline) censusResult(c *report.Census) *ports.WordCensus {
	r := c.Result()
	if n := p.censusLimit; n > 0 {
		for _, v := range []*[]ports.Count{
			&r.SensitiveByFrequency, &r.SensitiveAlphabetical,
			&r.InsensitiveByFrequency, &r.InsensitiveAlphabetical,
		} {
			if len(*v) > n {
				*v = (*v)[:n]
			}
		}
	}
	return r
}
