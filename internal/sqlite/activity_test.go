package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/luisamog/ARKHO-PHS/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	entry1 := &activity.ActivityEntry{
		ProjectID:    "p1",
		ActivityType: activity.TypeProjectCreated,
		Summary:      "created project Apollo",
	}
	entry2 := &activity.ActivityEntry{
		ProjectID:    "p1",
		Week:         "2024-W07",
		ActivityType: activity.TypeAssessmentRecorded,
		Summary:      "recorded assessment 2024-W07",
		Details:      `{"overall":3.2}`,
	}

	require.NoError(t, repo.Log(ctx, entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)
	require.False(t, entry1.CreatedAt.IsZero())

	entries, err := repo.List(ctx, activity.ListActivityOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, "2024-W07", entries[0].Week)
	require.Equal(t, `{"overall":3.2}`, entries[0].Details)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Empty(t, entries[1].Week)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		ActivityType: activity.TypePortfolioImported,
		Summary:      "imported 3 projects",
	}))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		ProjectID:    "p1",
		ActivityType: activity.TypeProjectArchived,
		Summary:      "archived project Apollo",
	}))
	require.NoError(t, repo.Log(ctx, &activity.ActivityEntry{
		ProjectID:    "p2",
		ActivityType: activity.TypeProjectArchived,
		Summary:      "archived project Hermes",
	}))

	archived := activity.TypeProjectArchived
	entries, err := repo.List(ctx, activity.ListActivityOptions{ProjectID: "p1", ActivityType: &archived})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "p1", entries[0].ProjectID)

	entries, err = repo.List(ctx, activity.ListActivityOptions{ActivityType: &archived, Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.List(ctx, activity.ListActivityOptions{ProjectID: "p9"})
	require.NoError(t, err)
	require.Empty(t, entries)
}
