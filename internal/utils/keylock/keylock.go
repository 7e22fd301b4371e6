// Package keylock provides striped per-key mutexes. Mutations on the same
// key serialize; different keys proceed independently (modulo shard
// collisions, which only cost contention, never correctness).
package keylock

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

type KeyedMutex struct {
	shards [shardCount]sync.Mutex
}

// Lock acquires the shard for key and returns its unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	shard := &k.shards[hash(key)%shardCount]
	shard.Lock()
	return shard.Unlock
}

func hash(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32()
}
