// Package jsonl reads chat history exports, one JSON message per line.
//
// Export tools disagree on field names, so the parser extracts from a
// map[string]any with multi-path field resolution and never crashes on
// unexpected input. Two shapes are understood:
//
//   - native: {"id", "sender": {"id", "first_name", ...}, "date", "text",
//     "media", "reactions": [{"user_id", "emoji"}]}
//   - desktop-export style: {"id", "type", "from_id": "user42", "from",
//     "date" | "date_unixtime", "text": string | [entities], "photo" | "file",
//     "reactions": [{"emoji", "count", "recent": [{"from_id"}]}]}
package jsonl

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/corey/chatstat/internal/ports"
)

// mediaKeys mark a message as carrying an attachment.
var mediaKeys = []string{"photo", "file", "media_type", "sticker_emoji", "poll", "location_information", "contact_information"}

// ParseLine parses a single JSONL line into a Message.
// Returns nil, nil for empty lines. Returns nil, error for malformed JSON.
// Service messages come back with a nil Sender.
func ParseLine(line []byte) (*ports.Message, error) {
	line = bytes.TrimSpace(trimBOM(line))
	if len(line) == 0 {
		return nil, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, err
	}

	msg := &ports.Message{
		ID:   getInt64Any(raw, "id", "message_id"),
		Date: getTimeAny(raw, "date_unixtime", "date", "timestamp"),
		Text: getText(raw["text"]),
	}
	if msg.Text == "" {
		msg.Text = getStringAny(raw, "message", "body")
	}

	if getString(raw, "type") != "service" {
		msg.Sender = parseSender(raw)
	}

	msg.Media = getBool(raw, "media")
	if !msg.Media {
		for _, k := range mediaKeys {
			if _, ok := raw[k]; ok {
				msg.Media = true
				break
			}
		}
	}

	msg.Reactions = parseReactions(raw["reactions"])
	return msg, nil
}

func parseSender(raw map[string]any) *ports.Sender {
	if s := getMap(raw, "sender"); s != nil {
		return &ports.Sender{
			ID:        getInt64Any(s, "id", "user_id"),
			FirstName: getStringAny(s, "first_name", "firstName"),
			LastName:  getStringAny(s, "last_name", "lastName"),
			Username:  getString(s, "username"),
		}
	}
	id := peerID(raw["from_id"])
	if id == 0 {
		id = getInt64Any(raw, "sender_id", "user_id")
	}
	if id == 0 {
		return nil
	}
	return &ports.Sender{
		ID:        id,
		FirstName: getStringAny(raw, "from", "sender_name"),
		Username:  getString(raw, "username"),
	}
}

// MaxReactionCount bounds the aggregated count of a single reaction entry.
const MaxReactionCount = 1_000_000

// parseReactions accepts flat per-user entries and aggregated entries with
// a "recent" list. Aggregated counts beyond the recent list become one
// weighted anonymous reaction.
func parseReactions(v any) []ports.Reaction {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []ports.Reaction
	for _, item := range list {
		r, ok := item.(map[string]any)
		if !ok {
			continue
		}
		emoji := getStringAny(r, "emoji", "emoticon", "reaction")
		if emoji == "" {
			emoji = getStringAny(r, "document_id", "custom_emoji")
		}
		if emoji == "" {
			continue
		}

		recent, hasRecent := r["recent"].([]any)
		if !hasRecent {
			uid := getInt64(r, "user_id")
			if uid == 0 {
				uid = peerID(r["from_id"])
			}
			out = append(out, ports.Reaction{UserID: uid, Emoji: emoji})
			continue
		}
		for _, rv := range recent {
			if rm, ok := rv.(map[string]any); ok {
				out = append(out, ports.Reaction{UserID: peerID(rm["from_id"]), Emoji: emoji})
			}
		}
		count := getInt64(r, "count")
		if count > MaxReactionCount {
			count = MaxReactionCount
		}
		if rest := int(count) - len(recent); rest > 0 {
			out = append(out, ports.Reaction{Emoji: emoji, Count: rest})
		}
	}
	return out
}

// getText flattens a string or a list of strings / {"text": ...} entities.
func getText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var b strings.Builder
		for _, part := range t {
			switch p := part.(type) {
			case string:
				b.WriteString(p)
			case map[string]any:
				b.WriteString(getString(p, "text"))
			}
		}
		return b.String()
	}
	return ""
}

// peerID parses "user42", "channel7", 42 or "42".
func peerID(v any) int64 {
	switch x := v.(type) {
	case string:
		s := strings.TrimLeft(x, "abcdefghijklmnopqrstuvwxyz")
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0
		}
		return id
	default:
		return toInt64(v)
	}
}

// ===== Defensive field access =====

func trimBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
}

func getMap(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func getString(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func getStringAny(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := getString(m, k); s != "" {
			return s
		}
	}
	return ""
}

func getBool(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case float64:
		switch {
		case x >= math.MaxInt64:
			return math.MaxInt64
		case x <= math.MinInt64:
			return math.MinInt64
		}
		return int64(x)
	case int64:
		return x
	case json.Number:
		n, _ := x.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(x, 10, 64)
		return n
	}
	return 0
}

func getInt64(m map[string]any, key string) int64 {
	return toInt64(m[key])
}

func getInt64Any(m map[string]any, keys ...string) int64 {
	for _, k := range keys {
		if n := getInt64(m, k); n != 0 {
			return n
		}
	}
	return 0
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// getTimeAny resolves the first parseable timestamp: RFC3339, naive
// ISO-8601 (taken as UTC), or unix seconds as number or string.
func getTimeAny(m map[string]any, keys ...string) time.Time {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			if v > 0 {
				return time.Unix(int64(v), 0).UTC()
			}
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				return time.Unix(n, 0).UTC()
			}
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t
				}
			}
		}
	}
	return time.Time{}
}

// lineError describes a malformed line.
type lineError struct {
	path string
	line int
	err  error
}

func (e *lineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.path, e.line, e.err)
}

func (e *lineError) Unwrap() error { return e.err }
