// Package sync provides keyed locking primitives for per-document
// serialization.
package sync

import (
	"hash/fnv"
	"sync"
)

// ShardedMutex serializes operations per resource key without holding one
// global lock. Keys hash onto a fixed set of shards; two documents sharing
// a shard serialize against each other, which is harmless, while unrelated
// documents usually proceed in parallel. Callers that also share a data
// structure across keys still need their own lock for it.
type ShardedMutex struct {
	shards [32]sync.Mutex
}

// NewShardedMutex creates a ShardedMutex with 32 shards.
func NewShardedMutex() *ShardedMutex {
	return &ShardedMutex{}
}

// Lock acquires the shard lock for the given key.
func (m *ShardedMutex) Lock(key string) {
	m.shards[m.shardFor(key)].Lock()
}

// Unlock releases the shard lock for the given key.
func (m *ShardedMutex) Unlock(key string) {
	m.shards[m.shardFor(key)].Unlock()
}

// shardFor maps a key to its shard index. Empty keys share shard 0.
func (m *ShardedMutex) shardFor(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(m.shards)))
}
