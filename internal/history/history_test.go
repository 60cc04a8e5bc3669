package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	games := []Game{
		{Room: "alpha", Role: "player1", Result: "You win!", FinishedAt: base},
		{Room: "alpha", Role: "player2", Result: "You lose.", FinishedAt: base.Add(time.Minute)},
		{Room: "beta", Role: "spectator", Result: "Draw", FinishedAt: base.Add(2 * time.Minute)},
	}
	for _, g := range games {
		require.NoError(t, store.Record(ctx, g))
	}

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Most recent first.
	require.Equal(t, "beta", recent[0].Room)
	require.Equal(t, "Draw", recent[0].Result)
	require.Equal(t, "alpha", recent[2].Room)
	require.Equal(t, "player1", recent[2].Role)
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Game{
			Room:       "alpha",
			Role:       "player1",
			Result:     "Draw",
			FinishedAt: time.Now(),
		}))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
}

func TestRecentEmpty(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	recent, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, recent)
}
