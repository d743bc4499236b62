package ports

import "time"

// TranscriptSink receives one human-legible line per text message, written
// before URL stripping and case folding. Used to produce a channel log.
type TranscriptSink interface {
	WriteLine(at time.Time, name, text string) error
}
