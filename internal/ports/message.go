package ports

import (
	"context"
	"strings"
	"time"
)

// =============================================================================
// Message Port: chat history as the analysis engine sees it
//
// Adapters (JSONL exports, the bbolt cache) translate whatever the chat service
// produced into this shape. The engine never talks to the chat service itself.
// =============================================================================

// UnknownUser is the display name used when a sender carries no name parts.
const UnknownUser = "Unknown User"

// Message is one chat message in the group history.
type Message struct {
	ID        int64      `json:"id"`
	Sender    *Sender    `json:"sender,omitempty"` // nil for system/service messages
	Date      time.Time  `json:"date"`
	Text      string     `json:"text,omitempty"`
	Media     bool       `json:"media,omitempty"`
	Reactions []Reaction `json:"reactions,omitempty"`
}

// IsSystem reports whether the message has no attributable sender.
// System messages are skipped by the engine, they are not an error.
func (m *Message) IsSystem() bool {
	return m == nil || m.Sender == nil || m.Sender.ID == 0
}

// Sender identifies the author of a message.
type Sender struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// DisplayName resolves a human-readable name.
// Precedence: first (+ last) name, then username, then UnknownUser.
func (s *Sender) DisplayName() string {
	if s == nil {
		return UnknownUser
	}
	first := strings.TrimSpace(s.FirstName)
	last := strings.TrimSpace(s.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case strings.TrimSpace(s.Username) != "":
		return strings.TrimSpace(s.Username)
	}
	return UnknownUser
}

// Reaction is a reaction attached to a message.
// UserID is zero when the chat service does not disclose who reacted.
// Count weights an entry that stands for several identical anonymous
// reactions; zero means one.
type Reaction struct {
	UserID int64  `json:"user_id,omitempty"`
	Emoji  string `json:"emoji"`
	Count  int    `json:"count,omitempty"`
}

// Weight returns how many reactions r stands for.
func (r Reaction) Weight() int {
	if r.Count < 1 {
		return 1
	}
	return r.Count
}

// MessageSource yields a finite, timestamp-ordered message sequence.
//
// Messages calls yield once per message, in order. Returning an error from
// yield stops iteration and that error is returned. A source may be iterated
// again by calling Messages again; no seek or random access is required.
type MessageSource interface {
	Messages(ctx context.Context, yield func(*Message) error) error
}

// MessageSourceFunc adapts a plain function to MessageSource.
type MessageSourceFunc func(ctx context.Context, yield func(*Message) error) error

// Messages implements MessageSource.
func (f MessageSourceFunc) Messages(ctx context.Context, yield func(*Message) error) error {
	return f(ctx, yield)
}

// SliceSource is an in-memory MessageSource, mostly useful in tests.
type SliceSource []*Message

// Messages implements MessageSource.
func (s SliceSource) Messages(ctx context.Context, yield func(*Message) error) error {
	for _, m := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := yield(m); err != nil {
			return err
		}
	}
	return nil
}
