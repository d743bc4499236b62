// Package config loads chatstat's layered configuration.
//
// Layers, lowest precedence first:
//  1. built-in defaults (Default)
//  2. a YAML file: --config, $CHATSTAT_CONFIG, or ./chatstat.yaml
//  3. environment variables CHATSTAT_<SECTION>_<KEY>, e.g.
//     CHATSTAT_ANALYSIS_MIN_WORD_LENGTH=4
//
// The merged result is validated once; any error is fatal before a single
// message is processed.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CHATSTAT_"
	// PathEnvVar names the config file when --config is not given.
	PathEnvVar = "CHATSTAT_CONFIG"
	// DefaultFile is looked up in the working directory last.
	DefaultFile = "chatstat.yaml"
)

// Matcher engines.
const (
	EngineAhoCorasick = "aho-corasick"
	EngineRegex       = "regex"
)

// Config is the full configuration surface.
type Config struct {
	Analysis   AnalysisConfig   `koanf:"analysis"`
	Limits     LimitsConfig     `koanf:"limits"`
	Ranking    RankingConfig    `koanf:"ranking"`
	Outliers   OutliersConfig   `koanf:"outliers"`
	Sentiment  SentimentConfig  `koanf:"sentiment"`
	Transcript TranscriptConfig `koanf:"transcript"`
	Paths      PathsConfig      `koanf:"paths"`
	Chat       ChatConfig       `koanf:"chat"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// AnalysisConfig toggles the text pipeline.
type AnalysisConfig struct {
	CaseInsensitive bool   `koanf:"case_insensitive"`
	Transliterate   bool   `koanf:"transliterate"`
	FoldAccents     bool   `koanf:"fold_accents"`
	StripURLs       bool   `koanf:"strip_urls"`
	UnwrapMentions  bool   `koanf:"unwrap_mentions"`
	Pluralize       bool   `koanf:"pluralize"`
	FilterStopwords bool   `koanf:"filter_stopwords"`
	MinWordLength   int    `koanf:"min_word_length" validate:"min=1,max=64"`
	CountReactions  bool   `koanf:"count_reactions"`
	Timezone        string `koanf:"timezone" validate:"required"`
	Matcher         string `koanf:"matcher" validate:"oneof=aho-corasick regex"`
	Workers         int    `koanf:"workers" validate:"min=0,max=1024"`
	Percentages     bool   `koanf:"percentages"`
	Loudness        string `koanf:"loudness" validate:"oneof=messages words"`
}

// LimitsConfig holds the top-N truncation limits. Zero keeps everything.
type LimitsConfig struct {
	UserWords        int `koanf:"user_words" validate:"min=0"`
	UserReactions    int `koanf:"user_reactions" validate:"min=0"`
	UserCategories   int `koanf:"user_categories" validate:"min=0"`
	UserActiveDays   int `koanf:"user_active_days" validate:"min=0"`
	GlobalWords      int `koanf:"global_words" validate:"min=0"`
	GlobalReactions  int `koanf:"global_reactions" validate:"min=0"`
	GlobalCategories int `koanf:"global_categories" validate:"min=0"`
	GlobalRanking    int `koanf:"global_ranking" validate:"min=0"`
	GlobalDays       int `koanf:"global_days" validate:"min=0"`
	// CensusWords bounds each view of the word census.
	CensusWords int `koanf:"census_words" validate:"min=0"`
}

// RankingConfig selects the leaderboard sort key.
type RankingConfig struct {
	ByRatio bool `koanf:"by_ratio"`
}

// OutliersConfig bounds which users enter the leaderboards. A zero max is
// unbounded.
type OutliersConfig struct {
	Enabled       bool `koanf:"enabled"`
	MinMessages   int  `koanf:"min_messages" validate:"min=0"`
	MaxMessages   int  `koanf:"max_messages" validate:"min=0"`
	MinActiveDays int  `koanf:"min_active_days" validate:"min=0"`
	MaxActiveDays int  `koanf:"max_active_days" validate:"min=0"`
}

// SentimentConfig enables the lexicon scorer.
type SentimentConfig struct {
	Enabled  bool     `koanf:"enabled"`
	Positive []string `koanf:"positive"`
	Negative []string `koanf:"negative"`
	// Replace drops the built-in lexicons in favour of Positive/Negative.
	Replace bool `koanf:"replace"`
}

// TranscriptConfig controls the channel log.
type TranscriptConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Path     string `koanf:"path"` // empty: <data_dir>/channel.log
	ShowDate bool   `koanf:"show_date"`
}

// PathsConfig locates inputs and outputs.
type PathsConfig struct {
	DataDir   string `koanf:"data_dir" validate:"required"`
	Lookup    string `koanf:"lookup"`     // category table; empty uses the built-in example
	OutputDir string `koanf:"output_dir"` // empty: <data_dir>/output
}

// ChatConfig names the chat being analysed.
type ChatConfig struct {
	// ID namespaces the message cache and stored reports.
	ID string `koanf:"id" validate:"required,max=128"`
}

// LoggingConfig is handed to logging.New.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled off"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			CaseInsensitive: true,
			Transliterate:   false,
			FoldAccents:     true,
			StripURLs:       true,
			UnwrapMentions:  true,
			Pluralize:       true,
			FilterStopwords: true,
			MinWordLength:   3,
			CountReactions:  true,
			Timezone:        "UTC",
			Matcher:         EngineAhoCorasick,
			Workers:         0, // 0 = GOMAXPROCS
			Percentages:     false,
			Loudness:        "messages",
		},
		Limits: LimitsConfig{
			UserWords:        50,
			UserReactions:    20,
			UserCategories:   1000,
			UserActiveDays:   30,
			GlobalWords:      100,
			GlobalReactions:  20,
			GlobalCategories: 1000,
			GlobalRanking:    50,
			GlobalDays:       30,
			CensusWords:      0,
		},
		Ranking: RankingConfig{ByRatio: true},
		Outliers: OutliersConfig{
			Enabled:       true,
			MinMessages:   10,
			MinActiveDays: 2,
		},
		Transcript: TranscriptConfig{ShowDate: true},
		Paths:      PathsConfig{DataDir: ".chatstat"},
		Chat:       ChatConfig{ID: "default"},
		Logging:    LoggingConfig{Level: "info", Format: "console"},
	}
}

// ResolvePath picks the config file: explicit, then $CHATSTAT_CONFIG, then
// ./chatstat.yaml if it exists. Returns "" when there is none.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Load merges defaults, the config file at path (see ResolvePath) and the
// environment, then validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path = ResolvePath(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransformFunc maps CHATSTAT_ANALYSIS_MIN_WORD_LENGTH to
// analysis.min_word_length. Variables without a section are ignored.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok || rest == "" {
		return ""
	}
	return section + "." + rest
}

// sliceConfigPaths accept comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"sentiment.positive",
	"sentiment.negative",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// Validate checks struct tags and the cross-field rules.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	o := c.Outliers
	if o.MaxMessages > 0 && o.MinMessages > o.MaxMessages {
		return fmt.Errorf("%w: outliers.min_messages %d > max_messages %d", ErrInvalid, o.MinMessages, o.MaxMessages)
	}
	if o.MaxActiveDays > 0 && o.MinActiveDays > o.MaxActiveDays {
		return fmt.Errorf("%w: outliers.min_active_days %d > max_active_days %d", ErrInvalid, o.MinActiveDays, o.MaxActiveDays)
	}
	if _, err := time.LoadLocation(c.Analysis.Timezone); err != nil {
		return fmt.Errorf("%w: analysis.timezone: %v", ErrInvalid, err)
	}
	if c.Transcript.Enabled && strings.ContainsRune(c.Transcript.Path, 0) {
		return fmt.Errorf("%w: transcript.path contains NUL", ErrInvalid)
	}
	return nil
}

// Location returns the configured time zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Analysis.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DefaultYAML renders Default as a YAML document, for `config init`.
func DefaultYAML() ([]byte, error) {
	return Default().YAML()
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(c, "koanf"), nil); err != nil {
		return nil, err
	}
	return k.Marshal(yaml.Parser())
}
