package session

import (
	"context"
	"hash/fnv"

	"golang.org/x/sync/semaphore"
)

const defaultLockShards = 64

// ownerLocks serializes mutations per owner. Owners hash onto a fixed set of
// shards, so two owners may share a shard but one owner never spans two.
type ownerLocks struct {
	shards []*semaphore.Weighted
}

func newOwnerLocks(n int) *ownerLocks {
	if n <= 0 {
		n = defaultLockShards
	}
	shards := make([]*semaphore.Weighted, n)
	for i := range shards {
		shards[i] = semaphore.NewWeighted(1)
	}
	return &ownerLocks{shards: shards}
}

// acquire blocks until the owner's shard is free or ctx is done.
func (l *ownerLocks) acquire(ctx context.Context, ownerID string) (func(), error) {
	sem := l.shards[l.index(ownerID)]
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { sem.Release(1) }, nil
}

func (l *ownerLocks) index(ownerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ownerID))
	return int(h.Sum32() % uint32(len(l.shards)))
}
