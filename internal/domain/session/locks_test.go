package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOwnerLocks_SerializeSameOwner(t *testing.T) {
	locks := newOwnerLocks(8)

	release, err := locks.acquire(context.Background(), "owner1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locks.acquire(ctx, "owner1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	release()

	release, err = locks.acquire(context.Background(), "owner1")
	require.NoError(t, err)
	release()
}

func TestOwnerLocks_StableIndex(t *testing.T) {
	locks := newOwnerLocks(0)
	require.Len(t, locks.shards, defaultLockShards)
	require.Equal(t, locks.index("owner1"), locks.index("owner1"))
	require.Less(t, locks.index("someone-else"), defaultLockShards)
}

func TestValidateRange(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	start := now.Add(-2 * time.Hour)
	end := now.Add(-time.Hour)
	before := start.Add(-time.Minute)
	future := now.Add(time.Minute)
	future2 := now.Add(2 * time.Minute)

	require.NoError(t, validateRange(start, nil, now))
	require.NoError(t, validateRange(start, &end, now))
	require.NoError(t, validateRange(start, &start, now))
	require.NoError(t, validateRange(start, &now, now))

	require.ErrorIs(t, validateRange(future, nil, now), ErrInvalidTimeRange)
	require.ErrorIs(t, validateRange(start, &before, now), ErrInvalidTimeRange)
	require.ErrorIs(t, validateRange(start, &future, now), ErrInvalidTimeRange)
	require.ErrorIs(t, validateRange(future, &future2, now), ErrInvalidTimeRange)
}
