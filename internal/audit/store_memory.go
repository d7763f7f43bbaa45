package audit

import (
	"context"
	"sync"

	"seacrew/pkg/domain"
)

// MemoryStore keeps audit events in process memory, append-only.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStore creates an empty in-memory audit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) ListByDocument(_ context.Context, docID domain.DocumentID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.DocumentID != nil && *e.DocumentID == docID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListByCrewMember(_ context.Context, crewID domain.CrewMemberID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.CrewMemberID != nil && *e.CrewMemberID == crewID {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns every stored event, oldest first. Test helper.
func (s *MemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

var _ Store = (*MemoryStore)(nil)
