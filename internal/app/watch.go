package app

import (
	"context"
	"path/filepath"

	"github.com/corey/chatstat/internal/config"
	"github.com/corey/chatstat/internal/ports"
)

// WatchOptions configures watch mode.
type WatchOptions struct {
	Collect CollectOptions
	// ConfigPath is reloaded when it changes. Empty disables config reload.
	ConfigPath string
	// OnRun is called after every run, including the initial one.
	OnRun func(*CollectResult, error)
}

// Watch runs Collect once, then again whenever an input export, the config
// file or the category table changes, until ctx is cancelled. Changes that
// arrive during a run coalesce into a single follow-up run. The cache file
// is not watched since every run writes its report there.
func (a *App) Watch(ctx context.Context, w ports.Watcher, opts WatchOptions) error {
	onRun := opts.OnRun
	if onRun == nil {
		onRun = func(*CollectResult, error) {}
	}

	configPath := absOrEmpty(opts.ConfigPath)
	lookupPath := absOrEmpty(a.Paths.Lookup)

	trigger := make(chan string, 1)
	paths := append([]string{}, opts.Collect.Inputs...)
	for _, p := range []string{configPath, lookupPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}

	if err := w.Watch(paths, func(path string) {
		select {
		case trigger <- path:
		default: // a run is already pending
		}
	}); err != nil {
		return err
	}
	defer w.Stop()

	onRun(a.Collect(ctx, opts.Collect))

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-trigger:
			a.log.Info().Str("path", path).Msg("change detected")
			if path == configPath || path == lookupPath {
				if err := a.reloadFrom(opts.ConfigPath); err != nil {
					a.log.Error().Err(err).Msg("reload failed, keeping previous configuration")
					onRun(nil, err)
					continue
				}
			}
			onRun(a.Collect(ctx, opts.Collect))
		}
	}
}

func (a *App) reloadFrom(configPath string) error {
	settings := a.Settings
	if configPath != "" {
		s, err := config.Load(configPath)
		if err != nil {
			return err
		}
		settings = s
	}
	return a.Reload(settings)
}

func absOrEmpty(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
