package collection

import (
	"context"
	"fmt"
	"sync"
)

const maxViewPerPage = 100

// InMemoryViewStore provides a concurrency-safe default store for saved
// views (named criteria presets) keyed by user.
type InMemoryViewStore struct {
	mu   sync.RWMutex
	data map[string][]SavedView
}

// NewInMemoryViewStore creates an empty view store.
func NewInMemoryViewStore() *InMemoryViewStore {
	return &InMemoryViewStore{data: make(map[string][]SavedView)}
}

// Views returns the user's saved views in save order.
func (s *InMemoryViewStore) Views(_ context.Context, userID string) ([]SavedView, error) {
	if userID == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	views := s.data[userID]
	out := make([]SavedView, len(views))
	copy(out, views)
	return out, nil
}

// SaveView persists a view for a user, replacing any view of the same name.
func (s *InMemoryViewStore) SaveView(_ context.Context, userID string, view SavedView) error {
	if userID == "" {
		return fmt.Errorf("collection: view store requires user id")
	}
	if view.Name == "" {
		return fmt.Errorf("collection: saved view requires a name")
	}
	view.Criteria = clampView(view.Criteria)
	s.mu.Lock()
	defer s.mu.Unlock()
	views := s.data[userID]
	for i := range views {
		if views[i].Name == view.Name {
			views[i] = view
			return nil
		}
	}
	s.data[userID] = append(views, view)
	return nil
}

// DeleteView removes a named view; deleting an unknown name is a no-op.
func (s *InMemoryViewStore) DeleteView(_ context.Context, userID, name string) error {
	if userID == "" {
		return fmt.Errorf("collection: view store requires user id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	views := s.data[userID]
	for i := range views {
		if views[i].Name == name {
			s.data[userID] = append(views[:i], views[i+1:]...)
			return nil
		}
	}
	return nil
}

func clampView(crit Criteria) Criteria {
	crit = crit.Normalize()
	if crit.PerPage > maxViewPerPage {
		crit.PerPage = maxViewPerPage
	}
	return crit
}
