// Package transcript writes a human-legible channel log, one line per text
// message, as the collector observes them.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DateLayout is the timestamp layout of dated lines.
const DateLayout = "2006-01-02 15:04:05"

// Sink is a ports.TranscriptSink backed by a writer.
type Sink struct {
	mu       sync.Mutex
	w        *bufio.Writer
	closer   io.Closer
	showDate bool
	loc      *time.Location
}

// Options controls line formatting.
type Options struct {
	ShowDate bool
	Location *time.Location // nil means UTC
}

// Create truncates (or creates) the file at path and returns a sink
// writing to it. Each run starts a fresh log.
func Create(path string, opts Options) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create transcript: %w", err)
	}
	s := New(f, opts)
	s.closer = f
	return s, nil
}

// New returns a sink writing to w. Close flushes but does not close w.
func New(w io.Writer, opts Options) *Sink {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Sink{w: bufio.NewWriter(w), showDate: opts.ShowDate, loc: loc}
}

// WriteLine appends "<name> text" or "[ date ] <name> text". Embedded
// newlines are flattened so one message stays on one line.
func (s *Sink) WriteLine(at time.Time, name, text string) error {
	text = strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", " "), "\n", " ")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.showDate {
		if _, err := fmt.Fprintf(s.w, "[ %s ] ", at.In(s.loc).Format(DateLayout)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(s.w, "<%s> %s\n", name, text)
	return err
}

// Close flushes buffered lines and closes the underlying file, if any.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
		s.closer = nil
	}
	return err
}
