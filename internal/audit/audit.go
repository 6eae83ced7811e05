package audit

import (
	"sync"
	"time"
)

// Entry is a single immutable audit record. Entries are never edited or
// removed once appended.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Log is an append-only, in-memory record of stock changes and deletions.
// Its lifetime is bound to the running process; it is not persisted.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewLog creates an empty audit log.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Record appends a message with the current timestamp. Entries stay in
// chronological append order.
func (l *Log) Record(message string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		Timestamp: l.now(),
		Message:   message,
	}
	l.entries = append(l.entries, entry)
	return entry
}

// Entries returns a snapshot copy, oldest first. The caller cannot mutate the
// log through the returned slice.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make([]Entry, len(l.entries))
	copy(snapshot, l.entries)
	return snapshot
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
