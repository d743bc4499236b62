package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Watch mode: input changes trigger a fresh analysis run
// =============================================================================

const testDebounce = 30 * time.Millisecond

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, paths ...string) (*Watcher, <-chan string) {
	t.Helper()
	w, err := NewWatcher(zerolog.Nop(), testDebounce)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(paths, func(path string) {
		changed <- path
	}))
	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return w, changed
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "history.jsonl")
	require.NoError(t, os.WriteFile(export, []byte("{}\n"), 0o644))

	_, changed := startWatcher(t, export)
	require.NoError(t, os.WriteFile(export, []byte("{}\n{}\n"), 0o644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, export, path)
}

func TestWatcher_WatchedFileOnlyIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "chatstat.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("a: 1\n"), 0o644))

	_, changed := startWatcher(t, cfg)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("b: 2\n"), 0o644))

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "sibling of a watched file must not trigger")
}

func TestWatcher_MissingFilePickedUpOnCreate(t *testing.T) {
	dir := t.TempDir()
	lookup := filepath.Join(dir, "lookup.yaml")

	_, changed := startWatcher(t, lookup)
	require.NoError(t, os.WriteFile(lookup, []byte("categories: {}\n"), 0o644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for created file")
	assert.Equal(t, lookup, path)
}

func TestWatcher_DirectoryFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	_, changed := startWatcher(t, dir)

	os.WriteFile(filepath.Join(dir, ".hidden.jsonl"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, "export.jsonl.swp"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "should not have received callback for ignored files")

	export := filepath.Join(dir, "export.jsonl")
	require.NoError(t, os.WriteFile(export, []byte("{}\n"), 0o644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for export file")
	assert.Equal(t, export, path)
}

func TestWatcher_DetectsDeletedFile(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "old.jsonl")
	require.NoError(t, os.WriteFile(export, []byte("{}\n"), 0o644))

	_, changed := startWatcher(t, dir)
	require.NoError(t, os.Remove(export))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for deleted file")
	assert.Equal(t, export, path)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "history.jsonl")
	require.NoError(t, os.WriteFile(export, nil, 0o644))

	_, changed := startWatcher(t, export)

	f, err := os.OpenFile(export, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.WriteString("{}\n")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	_, ok := waitForCallback(changed, 2*time.Second)
	require.True(t, ok)
	_, again := waitForCallback(changed, 4*testDebounce)
	assert.False(t, again, "burst should collapse into one callback")
}

func TestWatcher_StopCleanup(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(zerolog.Nop(), testDebounce)
	require.NoError(t, err)

	callCount := 0
	var mu sync.Mutex
	err = w.Watch([]string{dir}, func(path string) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	err = w.Stop()
	require.NoError(t, err)

	// Write file after stop: should NOT trigger callback
	os.WriteFile(filepath.Join(dir, "after_stop.jsonl"), []byte("{}"), 0o644)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 0, callCount, "callbacks fired after Stop()")
	mu.Unlock()

	// Double-stop should be safe
	assert.NoError(t, w.Stop())
}

func TestShouldIgnorePath(t *testing.T) {
	assert.True(t, shouldIgnorePath("/x/.chatstat.yaml"))
	assert.True(t, shouldIgnorePath("/x/export.jsonl~"))
	assert.True(t, shouldIgnorePath("/x/#export.jsonl#"))
	assert.False(t, shouldIgnorePath("/x/export.jsonl"))
}
