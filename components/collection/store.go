package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrStoreClosed is returned when loading through a torn-down store.
	ErrStoreClosed = errors.New("collection: store is closed")

	errMissingSource = errors.New("collection: record source not configured")
)

// StoreOptions configures a Store. The source is required; everything else
// defaults to a safe noop.
type StoreOptions struct {
	Source    RecordSource
	Telemetry Telemetry
	// OwnerID scopes the Mine subset. Usually the signed-in user's id.
	OwnerID string
}

// Store holds the current page's record set and applies mutations confirmed
// by the network layer. All reads return cloned records so renderers never
// alias store state.
//
// Every committed Load bumps an internal generation counter. Mutations are
// applied through ApplyAt with the generation captured before the triggering
// network call, so a confirmation that races a wholesale reload is dropped
// instead of silently resurrecting stale state. Loads themselves are fenced
// the same way: when loads overlap, only the most recently started one
// commits, so a slow response for old criteria cannot overwrite the records
// of a newer one.
type Store struct {
	opts StoreOptions

	mu         sync.Mutex
	records    []Record
	criteria   Criteria
	generation uint64
	loadSeq    uint64
	loaded     bool
	closed     bool
}

// NewStore builds a store bound to a record source.
func NewStore(opts StoreOptions) *Store {
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Store{opts: opts}
}

// Load replaces the entire collection with the source's response for the
// given criteria. The replace is all-or-nothing: on error the collection is
// reset to empty, never left partially overwritten, and the error is
// returned for the caller to surface as a notification. A response that is
// superseded by a newer Load is discarded outright, success or failure.
func (s *Store) Load(ctx context.Context, crit Criteria) error {
	if s.opts.Source == nil {
		return errMissingSource
	}
	crit = crit.Normalize()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	s.loadSeq++
	token := s.loadSeq
	s.criteria = crit
	s.mu.Unlock()

	records, err := s.opts.Source.List(ctx, crit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if token != s.loadSeq {
		return nil
	}
	s.generation++
	s.loaded = true
	if err != nil {
		s.records = nil
		s.opts.Telemetry.Record(ctx, "collection.load.error", map[string]any{
			"error": err.Error(),
		})
		return fmt.Errorf("collection: load: %w", err)
	}
	s.records = records
	s.opts.Telemetry.Record(ctx, "collection.load", map[string]any{
		"count": len(records),
		"page":  crit.Page,
	})
	return nil
}

// Reload repeats the last Load with the same criteria.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	crit := s.criteria
	s.mu.Unlock()
	return s.Load(ctx, crit)
}

// Apply applies a confirmed mutation regardless of generation. It no-ops on
// unknown identifiers: the record may have been filtered out by a concurrent
// reload. Returns whether the mutation changed the collection.
func (s *Store) Apply(m Mutation) bool {
	return s.ApplyAt(s.Generation(), m)
}

// ApplyAt applies a mutation only if the store is live and no reload has
// completed since the given generation was captured.
func (s *Store) ApplyAt(generation uint64, m Mutation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.generation != generation {
		return false
	}
	switch mut := m.(type) {
	case CreateRecord:
		s.records = append(s.records, mut.Record)
		return true
	case UpdateRecord:
		for i := range s.records {
			if s.records[i].ID == mut.ID {
				rec := mut.Record
				rec.ID = mut.ID
				s.records[i] = rec
				return true
			}
		}
	case RemoveRecord:
		for i := range s.records {
			if s.records[i].ID == mut.ID {
				s.records = append(s.records[:i], s.records[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Records returns a clone of the full collection in insertion order.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out
}

// Mine returns the subset owned by the configured owner, preserving order.
func (s *Store) Mine() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records {
		if rec.OwnedBy(s.opts.OwnerID) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// Find returns the record with the given id.
func (s *Store) Find(id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec.Clone(), true
		}
	}
	return Record{}, false
}

// Len reports the collection size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Criteria returns the criteria of the last Load.
func (s *Store) Criteria() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Generation returns the reload counter used to fence stale applies.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Loaded reports whether at least one Load has completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Close tears the store down: subsequent loads fail and in-flight applies
// no-op, so navigation away from a page cannot mutate dead state.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
}

// Closed reports whether the store has been torn down.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
