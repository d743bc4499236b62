// Package app wires together all adapters and domain logic.
// It provides the chatstat workflows: import, collect, words, show, wipe,
// and watch mode.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/corey/chatstat/internal/adapters/bbolt"
	"github.com/corey/chatstat/internal/adapters/export"
	"github.com/corey/chatstat/internal/adapters/jsonl"
	"github.com/corey/chatstat/internal/adapters/transcript"
	"github.com/corey/chatstat/internal/config"
	"github.com/corey/chatstat/internal/metrics"
	"github.com/corey/chatstat/internal/ports"
)

// App holds the wired components for one chat.
type App struct {
	Settings *config.Config
	Paths    *Paths
	Store    *bbolt.Store
	Pipeline *Pipeline
	Exporter *export.Writer

	log zerolog.Logger
	mu  sync.Mutex // serializes runs; watch mode may trigger while one is in flight
}

// Config holds initialization parameters for the App.
type Config struct {
	Settings *config.Config // required, already validated
	Logger   zerolog.Logger
}

// New creates an App with all dependencies wired: data directories, the
// bbolt cache and the analysis pipeline.
func New(cfg Config) (*App, error) {
	if cfg.Settings == nil {
		return nil, fmt.Errorf("settings required")
	}
	paths := NewPaths(cfg.Settings)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	pipeline, err := NewPipeline(cfg.Settings, paths.Lookup, cfg.Logger)
	if err != nil {
		return nil, err
	}

	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &App{
		Settings: cfg.Settings,
		Paths:    paths,
		Store:    store,
		Pipeline: pipeline,
		Exporter: export.NewWriter(paths.OutputDir),
		log:      cfg.Logger.With().Str("chat", cfg.Settings.Chat.ID).Logger(),
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// Logger returns the App's chat-scoped logger.
func (a *App) Logger() zerolog.Logger { return a.log }

func (a *App) chatID() string { return a.Settings.Chat.ID }

// source returns the JSONL exports when given, otherwise the cache.
func (a *App) source(inputs []string) ports.MessageSource {
	if len(inputs) > 0 {
		return jsonl.NewReader(a.log, inputs...)
	}
	return a.Store.Source(a.chatID())
}

// ===== Import =====

// ImportResult summarizes one import.
type ImportResult struct {
	Read    int   // messages parsed from the exports
	Written int   // messages new to the cache
	LastID  int64 // cache cursor after the import
}

// Import appends the messages of JSONL exports to the cache in batches of
// bbolt.BatchSize. Messages at or below the stored cursor are skipped, so
// re-importing an overlapping export is safe.
func (a *App) Import(ctx context.Context, files []string) (*ImportResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	res := &ImportResult{}
	batch := make([]*ports.Message, 0, bbolt.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := a.Store.SaveMessages(a.chatID(), batch)
		if err != nil {
			return fmt.Errorf("save batch: %w", err)
		}
		res.Written += n
		batch = batch[:0]
		return nil
	}

	err := jsonl.NewReader(a.log, files...).Messages(ctx, func(m *ports.Message) error {
		res.Read++
		batch = append(batch, m)
		if len(batch) == bbolt.BatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	if err := flush(); err != nil {
		return res, err
	}

	last, err := a.Store.LastMessageID(a.chatID())
	if err != nil {
		return res, fmt.Errorf("read cursor: %w", err)
	}
	res.LastID = last
	a.log.Info().Int("read", res.Read).Int("written", res.Written).Int64("last_id", last).Msg("import complete")
	return res, nil
}

// ===== Collect =====

// CollectOptions selects the input and the optional outputs of a run.
type CollectOptions struct {
	Inputs      []string // JSONL exports; empty replays the cache
	MetricsFile string   // write Prometheus textfile metrics here
	Census      bool     // include the word census in the report
}

// CollectResult is the outcome of one run.
type CollectResult struct {
	Report *ports.Report
	Files  []string // exported files
}

// Collect runs the full analysis, stores the report in the cache and
// exports it.
func (a *App) Collect(ctx context.Context, opts CollectOptions) (*CollectResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	start := time.Now()

	ropts := RunOptions{Census: opts.Census}
	var run *metrics.Run
	if opts.MetricsFile != "" {
		run = metrics.New()
		ropts.Metrics = run
	}

	var sink *transcript.Sink
	if a.Settings.Transcript.Enabled {
		var err error
		sink, err = transcript.Create(a.Paths.Transcript, transcript.Options{
			ShowDate: a.Settings.Transcript.ShowDate,
			Location: a.Settings.Location(),
		})
		if err != nil {
			return nil, err
		}
		ropts.Transcript = sink
	}

	rep, err := a.Pipeline.Run(ctx, a.source(opts.Inputs), ropts)
	if sink != nil {
		if cerr := sink.Close(); cerr != nil {
			a.log.Warn().Err(cerr).Msg("transcript close failed")
		}
	}
	if err != nil {
		return nil, err
	}

	if err := a.Store.SaveReport(a.chatID(), rep); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	files, err := a.Exporter.Write(rep)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	if run != nil {
		run.Finished(time.Since(start), time.Now())
		if err := run.WriteTextfile(opts.MetricsFile); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
	}
	return &CollectResult{Report: rep, Files: files}, nil
}

// ===== Words / Show / Wipe =====

// Words builds the whole-chat word census.
func (a *App) Words(ctx context.Context, inputs []string) (*ports.WordCensus, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Pipeline.Census(ctx, a.source(inputs))
}

// Show returns the last stored report, or nil if none exists.
func (a *App) Show() (*ports.Report, error) {
	return a.Store.LoadReport(a.chatID())
}

// Wipe removes the chat's cached messages and stored reports.
func (a *App) Wipe() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Store.DeleteChat(a.chatID())
}

// ===== Reload =====

// Reload swaps in new settings and rebuilds the pipeline. On error the
// current pipeline stays in place. The data directory and chat id are
// fixed for the life of the App.
func (a *App) Reload(settings *config.Config) error {
	if settings.Paths.DataDir != a.Settings.Paths.DataDir || settings.Chat.ID != a.Settings.Chat.ID {
		return fmt.Errorf("paths.data_dir and chat.id cannot change while running")
	}
	paths := NewPaths(settings)
	pipeline, err := NewPipeline(settings, paths.Lookup, a.log)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.Settings = settings
	a.Paths = paths
	a.Pipeline = pipeline
	a.Exporter = export.NewWriter(paths.OutputDir)
	return paths.EnsureDirs()
}
