// Package export writes analysis reports to disk: global_stats.json,
// user_stats.json and user_stats.csv.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/corey/chatstat/internal/ports"
)

// File names written into the output directory.
const (
	GlobalStatsFile = "global_stats.json"
	UserStatsFile   = "user_stats.json"
	UserStatsCSV    = "user_stats.csv"
)

// Writer writes reports into a single output directory.
type Writer struct {
	dir string
}

// NewWriter returns a writer rooted at dir. The directory is created on
// first Write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Write exports r and returns the paths written, in a fixed order.
func (w *Writer) Write(r *ports.Report) ([]string, error) {
	if r == nil || r.Global == nil {
		return nil, fmt.Errorf("export: empty report")
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	users := make(map[string]*ports.UserStats, len(r.Users))
	for _, u := range r.Users {
		users[strconv.FormatInt(u.UserID, 10)] = u
	}

	var written []string
	for _, f := range []struct {
		name string
		v    any
	}{
		{GlobalStatsFile, r.Global},
		{UserStatsFile, users},
	} {
		path := filepath.Join(w.dir, f.name)
		data, err := MarshalJSON(f.v)
		if err != nil {
			return written, fmt.Errorf("encode %s: %w", f.name, err)
		}
		if err := writeAtomic(path, data); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	path := filepath.Join(w.dir, UserStatsCSV)
	data, err := MarshalCSV(r.Users)
	if err != nil {
		return written, fmt.Errorf("encode %s: %w", UserStatsCSV, err)
	}
	if err := writeAtomic(path, data); err != nil {
		return written, err
	}
	return append(written, path), nil
}

// MarshalJSON encodes v with four-space indentation. Non-ASCII text and
// HTML characters are written as-is.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var csvHeader = []string{
	"user_id", "name", "outlier",
	"message_count", "word_count", "letter_count", "media_count",
	"loud_message_count", "loud_word_count", "curse_count",
	"reactions_given_count", "reactions_received_count", "active_days",
	"activeness", "media_ratio", "loudness", "loud_word_ratio", "naughtiness",
	"rg_ratio", "rr_ratio", "words_per_message", "messages_per_day", "sentiment",
	"top_active_days", "top_category_words", "top_words",
	"top_reactions_given", "top_reactions_received",
}

// MarshalCSV renders one row per user: scalar columns followed by the
// top-N views as compact JSON.
func MarshalCSV(users []*ports.UserStats) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, u := range users {
		views := make([]string, 0, 5)
		for _, v := range []any{u.TopActiveDays, u.TopCategoryWords, u.TopWords, u.TopReactionsGiven, u.TopReactionsReceived} {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			views = append(views, string(b))
		}

		sentiment := ""
		if u.Sentiment != nil {
			sentiment = formatFloat(*u.Sentiment)
		}

		row := []string{
			strconv.FormatInt(u.UserID, 10), u.Name, strconv.FormatBool(u.Outlier),
			strconv.Itoa(u.MessageCount), strconv.Itoa(u.WordCount), strconv.Itoa(u.LetterCount), strconv.Itoa(u.MediaCount),
			strconv.Itoa(u.LoudMessageCount), strconv.Itoa(u.LoudWordCount), strconv.Itoa(u.CurseCount),
			strconv.Itoa(u.ReactionsGivenCount), strconv.Itoa(u.ReactionsReceivedCount), strconv.Itoa(u.ActiveDays),
			formatFloat(u.Activeness), formatFloat(u.MediaRatio), formatFloat(u.Loudness), formatFloat(u.LoudWordRatio), formatFloat(u.Naughtiness),
			formatFloat(u.RGRatio), formatFloat(u.RRRatio), formatFloat(u.WordsPerMessage), formatFloat(u.MessagesPerDay), sentiment,
		}
		if err := cw.Write(append(row, views...)); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// writeAtomic writes via a temp file and rename so readers never see a
// half-written export.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
