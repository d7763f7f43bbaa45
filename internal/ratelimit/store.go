// Package ratelimit throttles API requests per client. Counting is backed by
// Redis when available so the limit holds across replicas, with an in-memory
// sliding window for single-node setups.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result describes the outcome of one counted request.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store counts a request against key and reports whether it fits the limit.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// MemoryStore is a sliding-window Store for single-process deployments.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
	now     func() time.Time
}

// NewMemoryStore creates an in-memory rate limit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*slidingWindow),
		now:     time.Now,
	}
}

type slidingWindow struct {
	timestamps []time.Time
	window     time.Duration
}

func (sw *slidingWindow) dropExpired(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

// Allow counts the request unless the window is already full.
func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sw, ok := s.windows[key]
	if !ok || sw.window != window {
		sw = &slidingWindow{window: window}
		s.windows[key] = sw
	}
	sw.dropExpired(now)

	if len(sw.timestamps) >= limit {
		return &Result{
			Allowed:   false,
			Limit:     limit,
			Remaining: 0,
			ResetAt:   sw.timestamps[0].Add(window),
		}, nil
	}

	sw.timestamps = append(sw.timestamps, now)
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(sw.timestamps),
		ResetAt:   sw.timestamps[0].Add(window),
	}, nil
}
