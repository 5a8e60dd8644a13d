package main

import "sync/atomic"

// SnapshotStore is a published-value cell: the scheduler loop is the only
// writer, any number of request handlers and tests read the latest pointer.
// Because publication is a single pointer swap, a reader always observes a
// snapshot from exactly one sampling pass, never a mix of two.
type SnapshotStore struct {
    cur atomic.Pointer[Snapshot]
}

// Publish makes s the current snapshot.  Capture timestamps are clamped so
// they never move backwards across publishes, even if the wall clock does.
func (st *SnapshotStore) Publish(s *Snapshot) {
    if prev := st.cur.Load(); prev != nil && s.Taken.Before(prev.Taken) {
        s.Taken = prev.Taken
    }
    st.cur.Store(s)
}

// Current returns the latest published snapshot, or nil before the first
// sampling pass.
func (st *SnapshotStore) Current() *Snapshot {
    return st.cur.Load()
}
