package collection

import (
	"fmt"
	"sync"
	"time"
)

// CommitFunc receives the new order when a reorder settles.
type CommitFunc func(ids []string)

// ReorderOption customizes a Reorderer.
type ReorderOption func(*Reorderer)

// WithCommit registers a commit callback invoked after each settled move.
// A non-zero debounce coalesces rapid successive moves into one commit so
// the in-memory order stays immediately consistent while persistence lags.
func WithCommit(fn CommitFunc, debounce time.Duration) ReorderOption {
	return func(r *Reorderer) {
		r.commit = fn
		r.debounce = debounce
	}
}

// Reorderer maintains an explicit user-defined ordering over a small list of
// record identifiers (the link-in-bio builder's link list). Moves apply to
// the in-memory sequence synchronously; commits are local callbacks and
// never revert the sequence on their own.
type Reorderer struct {
	mu       sync.Mutex
	ids      []string
	commit   CommitFunc
	debounce time.Duration
	timer    *time.Timer
}

// NewReorderer builds a reorderer seeded with the given sequence.
func NewReorderer(ids []string, opts ...ReorderOption) *Reorderer {
	r := &Reorderer{ids: append([]string(nil), ids...)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Move relocates the element at position from to position to, preserving the
// relative order of every other element. Moving an element onto itself is a
// no-op that schedules no commit.
func (r *Reorderer) Move(from, to int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if from < 0 || from >= len(r.ids) {
		return fmt.Errorf("collection: reorder from %d out of range [0,%d)", from, len(r.ids))
	}
	if to < 0 || to >= len(r.ids) {
		return fmt.Errorf("collection: reorder to %d out of range [0,%d)", to, len(r.ids))
	}
	if from == to {
		return nil
	}
	id := r.ids[from]
	r.ids = append(r.ids[:from], r.ids[from+1:]...)
	rest := append([]string(nil), r.ids[to:]...)
	r.ids = append(append(r.ids[:to:to], id), rest...)
	r.scheduleCommitLocked()
	return nil
}

// Sequence returns a copy of the current order.
func (r *Reorderer) Sequence() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

// Set replaces the sequence, e.g. after a reload.
func (r *Reorderer) Set(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.ids = append([]string(nil), ids...)
}

// Flush fires a pending debounced commit immediately.
func (r *Reorderer) Flush() {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	fn, ids := r.commit, append([]string(nil), r.ids...)
	r.mu.Unlock()
	if fn != nil {
		fn(ids)
	}
}

func (r *Reorderer) scheduleCommitLocked() {
	if r.commit == nil {
		return
	}
	if r.debounce <= 0 {
		fn, ids := r.commit, append([]string(nil), r.ids...)
		go fn(ids)
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, r.Flush)
}
