package narration

import (
	"encoding/json"
	"fmt"
)

// Log is the append-only narration of one battle. It is owned by a single
// battle context and is not safe for concurrent use; hand consumers a copy
// from Entries.
type Log struct {
	entries []Entry
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{}
}

// Append adds e after every existing entry.
//
// Postcondition: later changes to e.Metadata do not affect the Log.
func (l *Log) Append(e Entry) {
	l.entries = append(l.entries, e.clone())
}

// Add appends an entry built from its parts.
func (l *Log) Add(turn int, message string, typ Type, actorID string, metadata map[string]string) {
	l.Append(Entry{Turn: turn, Message: message, Type: typ, ActorID: actorID, Metadata: metadata})
}

// AppendUnique appends e unless an equal entry is already the last one.
// It reports whether e was appended.
func (l *Log) AppendUnique(e Entry) bool {
	if n := len(l.entries); n > 0 && l.entries[n-1].Equal(e) {
		return false
	}
	l.Append(e)
	return true
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns a copy of every entry in order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.clone()
	}
	return out
}

// Since returns a copy of the entries from index from onward. It lets a
// renderer poll for new entries.
func (l *Log) Since(from int) []Entry {
	if from < 0 {
		from = 0
	}
	if from >= len(l.entries) {
		return nil
	}
	out := make([]Entry, 0, len(l.entries)-from)
	for _, e := range l.entries[from:] {
		out = append(out, e.clone())
	}
	return out
}

// MarshalJSON encodes the entries as a JSON array for session caching.
func (l *Log) MarshalJSON() ([]byte, error) {
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// UnmarshalJSON replaces the entries with a decoded JSON array.
func (l *Log) UnmarshalJSON(b []byte) error {
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return fmt.Errorf("decoding narration log: %w", err)
	}
	l.entries = entries
	return nil
}
