package services

import (
	"agentflow/pkg/models"
)

// maxExecutionLogs bounds a run's log history. When exceeded, the oldest
// entries are dropped first; the window always holds the most recent entries
// in original order.
const maxExecutionLogs = 1000

// logBuffer accumulates a run's execution log as a bounded sliding window.
// It is owned by a single run invocation and is not safe for concurrent use.
type logBuffer struct {
	entries []models.LogEntry
}

func newLogBuffer() *logBuffer {
	return &logBuffer{}
}

// Append adds entries, trimming from the front once the cap is exceeded.
func (b *logBuffer) Append(entries ...models.LogEntry) {
	b.entries = append(b.entries, entries...)
	if excess := len(b.entries) - maxExecutionLogs; excess > 0 {
		b.entries = b.entries[excess:]
	}
}

// Len returns the current number of buffered entries.
func (b *logBuffer) Len() int {
	return len(b.entries)
}

// Entries returns the buffered entries, oldest first.
func (b *logBuffer) Entries() []models.LogEntry {
	return b.entries
}
