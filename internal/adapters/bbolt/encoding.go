// Key and value encoding for the message cache.
//
// Message and sender keys are big-endian uint64 ids so a cursor walks them
// in ascending numeric order. Values are JSON. A cached message stores only
// the sender id; name components live once per sender in the senders bucket
// and are joined back on replay, so renames show up in later runs.
package bbolt

import (
	"encoding/binary"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/corey/chatstat/internal/ports"
)

// idKey encodes a non-negative id as an 8-byte big-endian key.
func idKey(id int64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

// decodeID reverses idKey. Malformed keys decode to 0.
func decodeID(k []byte) int64 {
	if len(k) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(k))
}

// messageRecord is the cached form of a message.
type messageRecord struct {
	ID        int64            `json:"id"`
	SenderID  int64            `json:"sender_id"`
	Date      time.Time        `json:"date"`
	Text      string           `json:"text,omitempty"`
	Media     bool             `json:"media,omitempty"`
	Reactions []ports.Reaction `json:"reactions,omitempty"`
}

func encodeMessage(m *ports.Message) ([]byte, error) {
	rec := messageRecord{
		ID:        m.ID,
		SenderID:  m.Sender.ID,
		Date:      m.Date,
		Text:      m.Text,
		Media:     m.Media,
		Reactions: m.Reactions,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal message %d: %w", m.ID, err)
	}
	return data, nil
}

// decodeMessage rebuilds a message, joining the sender from senders.
// A sender missing from the bucket keeps only its id.
func decodeMessage(data []byte, senders map[int64]*ports.Sender) (*ports.Message, error) {
	var rec messageRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	sender := senders[rec.SenderID]
	if sender == nil {
		sender = &ports.Sender{ID: rec.SenderID}
	} else {
		cp := *sender
		sender = &cp
	}
	return &ports.Message{
		ID:        rec.ID,
		Sender:    sender,
		Date:      rec.Date,
		Text:      rec.Text,
		Media:     rec.Media,
		Reactions: rec.Reactions,
	}, nil
}
