// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches message exports, the config file and the category lookup file,
// filters out editor droppings, and debounces bursts (editors and export
// tools often write a file several times in a row) into one callback.
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period before onChange fires.
const DefaultDebounce = 250 * time.Millisecond

// Files that never trigger a run when they change inside a watched directory.
var ignoreSuffixes = []string{".swp", ".swx", ".tmp", "~", ".part", ".crdownload"}

// Extensions that do trigger a run when they change inside a watched directory.
var watchExts = map[string]bool{
	".jsonl": true,
	".json":  true,
	".yaml":  true,
	".yml":   true,
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	log      zerolog.Logger
	debounce time.Duration
	done     chan struct{}
	stopped  bool
	mu       sync.Mutex

	// files holds explicitly watched files; their parent directory is
	// watched so replace-by-rename saves are still seen.
	files map[string]bool
	// dirs holds explicitly watched directories.
	dirs map[string]bool

	timers map[string]*time.Timer
}

// NewWatcher creates a new file system watcher. A debounce <= 0 selects
// DefaultDebounce.
func NewWatcher(log zerolog.Logger, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fw:       fw,
		log:      log.With().Str("component", "watcher").Logger(),
		debounce: debounce,
		done:     make(chan struct{}),
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring each path. Files are matched exactly; directories
// report changes to any export, config or lookup file directly inside them.
// onChange is called with the absolute path of each changed file.
// Watch is called once per Watcher.
func (w *Watcher) Watch(paths []string, onChange func(filePath string)) error {
	added := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		dir := filepath.Dir(abs)
		switch {
		case err == nil && info.IsDir():
			w.dirs[abs] = true
			dir = abs
		case err == nil || os.IsNotExist(err):
			// A missing file is watched via its directory and picked up on create.
			w.files[abs] = true
		default:
			return err
		}
		if !added[dir] {
			if err := w.fw.Add(dir); err != nil {
				return err
			}
			added[dir] = true
		}
	}

	go w.loop(onChange)
	return nil
}

func (w *Watcher) loop(onChange func(string)) {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			w.schedule(event.Name, onChange)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")

		case <-w.done:
			return
		}
	}
}

// schedule (re)arms the per-file timer so a burst of events fires once,
// after the file has been quiet for the debounce interval.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		stopped := w.stopped
		delete(w.timers, path)
		w.mu.Unlock()
		if !stopped {
			onChange(path)
		}
	})
}

// relevant reports whether a change to path should trigger onChange.
func (w *Watcher) relevant(path string) bool {
	if w.files[path] {
		return true
	}
	if !w.dirs[filepath.Dir(path)] {
		return false
	}
	return !shouldIgnorePath(path) && watchExts[strings.ToLower(filepath.Ext(path))]
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for _, t := range w.timers {
		t.Stop()
	}
	close(w.done)
	return w.fw.Close()
}

// shouldIgnorePath returns true for hidden files and editor droppings.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "#") {
		return true
	}
	for _, s := range ignoreSuffixes {
		if strings.HasSuffix(base, s) {
			return true
		}
	}
	return false
}
