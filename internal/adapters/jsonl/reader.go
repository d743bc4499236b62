package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/corey/chatstat/internal/ports"
)

// MaxLineSize caps a single line; longer lines are skipped.
const MaxLineSize = 4 * 1024 * 1024

// Reader is a ports.MessageSource over one or more JSONL files, read in
// the order given. Every call to Messages re-reads the files from the start.
type Reader struct {
	paths []string
	log   zerolog.Logger
}

// NewReader returns a reader over paths.
func NewReader(log zerolog.Logger, paths ...string) *Reader {
	p := make([]string, len(paths))
	copy(p, paths)
	return &Reader{paths: p, log: log.With().Str("component", "jsonl").Logger()}
}

// Paths returns the files the reader covers.
func (r *Reader) Paths() []string { return r.paths }

// Messages implements ports.MessageSource. Malformed lines are logged and
// skipped; I/O errors and errors from yield abort the read.
func (r *Reader) Messages(ctx context.Context, yield func(*ports.Message) error) error {
	for _, path := range r.paths {
		if err := r.readFile(ctx, path, yield); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) readFile(ctx context.Context, path string, yield func(*ports.Message) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer f.Close()
	return r.read(ctx, path, f, yield)
}

// read uses ReadBytes rather than bufio.Scanner so oversized lines can be
// skipped instead of aborting the whole file.
func (r *Reader) read(ctx context.Context, name string, src io.Reader, yield func(*ports.Message) error) error {
	reader := bufio.NewReaderSize(src, 1024*1024)
	lineNo := 0
	skipped := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, readErr := reader.ReadBytes('\n')
		if len(line) == 0 && readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return fmt.Errorf("read %s: %w", name, readErr)
		}
		lineNo++

		line = bytes.TrimRight(line, "\r\n")
		switch {
		case len(line) > MaxLineSize:
			skipped++
			r.log.Warn().Str("file", name).Int("line", lineNo).Int("bytes", len(line)).Msg("skipping oversized line")
		default:
			msg, err := ParseLine(line)
			if err != nil {
				skipped++
				r.log.Warn().Err(&lineError{path: name, line: lineNo, err: err}).Msg("skipping malformed line")
			} else if msg != nil {
				if err := yield(msg); err != nil {
					return err
				}
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return fmt.Errorf("read %s: %w", name, readErr)
		}
	}

	if skipped > 0 {
		r.log.Info().Str("file", name).Int("skipped", skipped).Int("lines", lineNo).Msg("export read with skipped lines")
	}
	return nil
}
