package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/worklog/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	entry1 := &activity.ActivityEntry{
		SessionID:    "s1",
		ActivityType: activity.TypeSessionStarted,
		Summary:      "session started",
		CreatedAt:    base,
	}
	entry2 := &activity.ActivityEntry{
		SessionID:    "s1",
		ActivityType: activity.TypeSessionStopped,
		Summary:      "session stopped",
		CreatedAt:    base.Add(time.Hour),
	}

	require.NoError(t, repo.Log(ctx, "owner1", entry1))
	require.NoError(t, repo.Log(ctx, "owner1", entry2))
	require.NotZero(t, entry1.ID)
	require.Equal(t, "owner1", entry1.OwnerID)

	entries, err := repo.List(ctx, "owner1", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.True(t, base.Equal(entries[1].CreatedAt))
}

func TestActivityRepository_FiltersAndOwnerIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	require.NoError(t, repo.Log(ctx, "owner1", &activity.ActivityEntry{SessionID: "s1", ActivityType: activity.TypeSessionStarted, Summary: "a"}))
	require.NoError(t, repo.Log(ctx, "owner1", &activity.ActivityEntry{SessionID: "s2", ActivityType: activity.TypeSessionEdited, Summary: "b"}))
	require.NoError(t, repo.Log(ctx, "owner2", &activity.ActivityEntry{SessionID: "s3", ActivityType: activity.TypeSessionStarted, Summary: "c"}))

	sessionID := "s2"
	entries, err := repo.List(ctx, "owner1", activity.ListActivityOptions{SessionID: &sessionID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "b", entries[0].Summary)

	started := activity.TypeSessionStarted
	entries, err = repo.List(ctx, "owner1", activity.ListActivityOptions{ActivityType: &started})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a", entries[0].Summary)

	entries, err = repo.List(ctx, "owner1", activity.ListActivityOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "b", entries[0].Summary)

	entries, err = repo.List(ctx, "owner2", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
