// Package history keeps the ordered log of immutable song snapshots the
// request layer operates on: every successful load or edit pushes a new
// snapshot, and reverting pops back to the previous one. The synthesis core
// knows nothing about it.
package history

import (
	"sync"

	dawai "github.com/jklim1015/Daw-AI"
)

// Snapshot pairs a fully constructed song with the descriptor it was built
// from. Both are immutable once pushed.
type Snapshot struct {
	Song       *dawai.Song
	Descriptor *dawai.SongDescriptor
}

// Log is an append-only stack of snapshots, safe for concurrent handlers.
type Log struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func NewLog() *Log {
	return &Log{}
}

// Push appends a snapshot, making it current.
func (l *Log) Push(s Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshots = append(l.snapshots, s)
}

// Current returns the latest snapshot; ok is false when the log is empty.
func (l *Log) Current() (Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.snapshots) == 0 {
		return Snapshot{}, false
	}
	return l.snapshots[len(l.snapshots)-1], true
}

// Revert pops the latest snapshot and returns the one before it. The first
// snapshot is never popped, so a song stays loaded once it has been; ok is
// false only when the log is empty.
func (l *Log) Revert() (Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.snapshots) == 0 {
		return Snapshot{}, false
	}
	if len(l.snapshots) > 1 {
		l.snapshots = l.snapshots[:len(l.snapshots)-1]
	}
	return l.snapshots[len(l.snapshots)-1], true
}

// Len reports how many snapshots the log holds.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.snapshots)
}
