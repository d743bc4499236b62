// Package bbolt implements the ports.Storage interface using bbolt (embedded B+ tree).
// Each chat gets its own top-level bucket. Within that bucket, "messages",
// "senders", "meta" and "report" sub-buckets hold the cache. Writes are
// transactional: a crash mid-write cannot corrupt previously committed data.
package bbolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"

	"github.com/corey/chatstat/internal/ports"
)

// BatchSize is the number of messages committed per import transaction.
const BatchSize = 100

// Bucket keys
var (
	bucketMessages = []byte("messages")
	bucketSenders  = []byte("senders")
	bucketMeta     = []byte("meta")
	bucketReport   = []byte("report")
	keyLastID      = []byte("last_message_id")
	keyLatest      = []byte("latest")
)

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveMessages appends msgs to the chat's cache in a single transaction.
// System messages and ids at or below the stored last id are skipped.
func (s *Store) SaveMessages(chatID string, msgs []*ports.Message) (int, error) {
	written := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		chat, err := tx.CreateBucketIfNotExists([]byte(chatID))
		if err != nil {
			return err
		}
		mb, err := chat.CreateBucketIfNotExists(bucketMessages)
		if err != nil {
			return err
		}
		sb, err := chat.CreateBucketIfNotExists(bucketSenders)
		if err != nil {
			return err
		}
		meta, err := chat.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}

		last := readLastID(meta)
		next := last
		for _, m := range msgs {
			if m.IsSystem() || m.ID <= last || m.ID < 0 {
				continue
			}
			data, err := encodeMessage(m)
			if err != nil {
				return err
			}
			if err := mb.Put(idKey(m.ID), data); err != nil {
				return err
			}
			sender, err := json.Marshal(m.Sender)
			if err != nil {
				return fmt.Errorf("marshal sender %d: %w", m.Sender.ID, err)
			}
			if err := sb.Put(idKey(m.Sender.ID), sender); err != nil {
				return err
			}
			if m.ID > next {
				next = m.ID
			}
			written++
		}

		if next == last {
			return nil
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(next))
		return meta.Put(keyLastID, buf)
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func readLastID(meta *bolt.Bucket) int64 {
	if meta == nil {
		return 0
	}
	v := meta.Get(keyLastID)
	if len(v) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(v))
}

// LastMessageID returns the highest cached message id, or 0.
func (s *Store) LastMessageID(chatID string) (int64, error) {
	var last int64
	err := s.db.View(func(tx *bolt.Tx) error {
		chat := tx.Bucket([]byte(chatID))
		if chat == nil {
			return nil
		}
		last = readLastID(chat.Bucket(bucketMeta))
		return nil
	})
	return last, err
}

// EachMessage replays the cache in ascending id order inside one read
// transaction. Decoded messages are fresh values; fn may keep them.
func (s *Store) EachMessage(chatID string, fn func(*ports.Message) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		chat := tx.Bucket([]byte(chatID))
		if chat == nil {
			return nil
		}
		mb := chat.Bucket(bucketMessages)
		if mb == nil {
			return nil
		}

		senders := make(map[int64]*ports.Sender)
		if sb := chat.Bucket(bucketSenders); sb != nil {
			err := sb.ForEach(func(k, v []byte) error {
				var snd ports.Sender
				if err := json.Unmarshal(v, &snd); err != nil {
					return fmt.Errorf("unmarshal sender %d: %w", decodeID(k), err)
				}
				senders[decodeID(k)] = &snd
				return nil
			})
			if err != nil {
				return err
			}
		}

		c := mb.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			m, err := decodeMessage(v, senders)
			if err != nil {
				return fmt.Errorf("message %d: %w", decodeID(k), err)
			}
			if err := fn(m); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveReport stores the latest run report for a chat.
func (s *Store) SaveReport(chatID string, report *ports.Report) error {
	if report == nil {
		return fmt.Errorf("nil report")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		chat, err := tx.CreateBucketIfNotExists([]byte(chatID))
		if err != nil {
			return err
		}
		rb, err := chat.CreateBucketIfNotExists(bucketReport)
		if err != nil {
			return err
		}
		return rb.Put(keyLatest, data)
	})
}

// LoadReport retrieves the latest report for a chat.
// Returns nil, nil if no report exists.
func (s *Store) LoadReport(chatID string) (*ports.Report, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		chat := tx.Bucket([]byte(chatID))
		if chat == nil {
			return nil
		}
		rb := chat.Bucket(bucketReport)
		if rb == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := rb.Get(keyLatest); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, nil
	}

	var report ports.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

// DeleteChat removes all data (messages, senders, reports) for a chat.
// Idempotent: deleting a nonexistent chat is not an error.
func (s *Store) DeleteChat(chatID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(chatID)); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}

// Source adapts a chat's cache to ports.MessageSource.
func (s *Store) Source(chatID string) ports.MessageSource {
	return ports.MessageSourceFunc(func(ctx context.Context, yield func(*ports.Message) error) error {
		return s.EachMessage(chatID, func(m *ports.Message) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return yield(m)
		})
	})
}
