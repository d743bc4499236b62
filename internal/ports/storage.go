// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// Storage persists the local message cache and stored reports.
// The backing store (bbolt) is chat-scoped: each chatID gets its own
// namespace. Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveMessages and SaveReport must be transactional.
// A crash mid-write must not corrupt previously committed data.
type Storage interface {
	// SaveMessages appends a batch of messages to the cache for a chat and
	// advances the stored last message id. Messages with an id at or below
	// the stored last id are skipped, which makes re-imports resumable.
	// Returns the number of messages actually written.
	SaveMessages(chatID string, msgs []*Message) (int, error)

	// LastMessageID returns the highest cached message id, or 0 for a fresh chat.
	LastMessageID(chatID string) (int64, error)

	// EachMessage replays cached messages in ascending id order. Sender name
	// components are joined from the latest known values for that sender.
	// Returning an error from fn stops the replay and returns that error.
	EachMessage(chatID string, fn func(*Message) error) error

	// SaveReport stores the outcome of an analysis run. Overwrites any prior report.
	SaveReport(chatID string, report *Report) error

	// LoadReport retrieves the last stored report.
	// Returns nil, nil if no report exists.
	LoadReport(chatID string) (*Report, error)

	// DeleteChat removes all data (messages, senders, reports) for a chat.
	// Idempotent: deleting a nonexistent chat is not an error.
	DeleteChat(chatID string) error
}
