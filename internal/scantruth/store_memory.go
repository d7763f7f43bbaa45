package scantruth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"seacrew/pkg/domain"
	psync "seacrew/pkg/platform/sync"
)

// MemoryStore keeps scan history in process memory. Used in tests and for
// single-node deployments without Postgres.
//
// Two locks with distinct jobs: the sharded mutex serializes supersession
// per document, so concurrent RecordScan calls for the same document cannot
// both leave their record active; mu guards the map itself, which writers
// for unrelated documents would otherwise race on.
type MemoryStore struct {
	locks *psync.ShardedMutex
	mu    sync.RWMutex
	// history maps document ID to its records in recording order. The last
	// element is always the active record.
	history map[domain.DocumentID][]*ScanRecord
	now     func() time.Time
}

// MemoryOption configures the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the supersession timestamp source for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore creates an empty in-memory scan store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		locks:   psync.NewShardedMutex(),
		history: make(map[domain.DocumentID][]*ScanRecord),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) RecordScan(_ context.Context, record *ScanRecord) error {
	if record == nil {
		return fmt.Errorf("scan record is required")
	}
	key := record.DocumentID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	stored := record.Clone()
	stored.SupersededAt = nil
	stored.SupersededBy = nil

	s.mu.RLock()
	chain := s.history[record.DocumentID]
	s.mu.RUnlock()

	// Mutating the previous record is safe under the per-document lock
	// alone; every reader of this chain holds the same lock.
	if n := len(chain); n > 0 {
		prev := chain[n-1]
		when := s.now()
		id := stored.ID
		prev.SupersededAt = &when
		prev.SupersededBy = &id
	}

	s.mu.Lock()
	s.history[record.DocumentID] = append(chain, stored)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) ActiveScan(_ context.Context, docID domain.DocumentID) (*ScanRecord, error) {
	key := docID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	s.mu.RLock()
	chain := s.history[docID]
	s.mu.RUnlock()

	if len(chain) == 0 {
		return nil, ErrNotFound
	}
	return chain[len(chain)-1].Clone(), nil
}

func (s *MemoryStore) History(_ context.Context, docID domain.DocumentID) ([]*ScanRecord, error) {
	key := docID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	s.mu.RLock()
	chain := s.history[docID]
	s.mu.RUnlock()

	out := make([]*ScanRecord, len(chain))
	for i, r := range chain {
		out[i] = r.Clone()
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
