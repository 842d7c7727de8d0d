package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage/repository"
)

func insertSnapshot(t *testing.T, svc *Service, id, kind, deck string, at time.Time) {
	t.Helper()
	_, err := svc.db.Conn().Exec(
		`INSERT INTO report_snapshots (id, kind, deck_hash, payload, created_at) VALUES (?, ?, ?, '{}', ?)`,
		id, kind, deck, at.UTC().Format(repository.TimeLayout))
	require.NoError(t, err)
}

func TestPruneReports(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	policy := RetentionPolicy{MinimumAge: 30 * 24 * time.Hour, KeepPerDeck: 2}

	setup := func(t *testing.T) *Service {
		svc := NewTestService(t)
		// deck A: four old analyses and one recent one.
		insertSnapshot(t, svc, "a-recent", "analysis", "A", now.Add(-time.Hour))
		for i := 1; i <= 4; i++ {
			insertSnapshot(t, svc, fmt.Sprintf("a-old-%d", i), "analysis", "A", now.AddDate(0, -2, -i))
		}
		// deck A optimizations are counted separately.
		insertSnapshot(t, svc, "a-opt", "optimization", "A", now.AddDate(-1, 0, 0))
		// deck B: a single ancient snapshot.
		insertSnapshot(t, svc, "b-old", "analysis", "B", now.AddDate(-2, 0, 0))
		return svc
	}

	t.Run("dry run", func(t *testing.T) {
		svc := setup(t)
		result, err := svc.pruneReports(context.Background(), policy, true, now)
		require.NoError(t, err)

		assert.Equal(t, 7, result.TotalSnapshots)
		// a-recent and a-old-1 fill deck A's two slots; a-old-2..4 go.
		assert.Equal(t, 3, result.RemovedSnapshots)
		assert.Equal(t, 4, result.RetainedSnapshots)
		assert.Equal(t, map[string]int{"analysis": 3}, result.RemovedByKind)
		assert.True(t, result.NewestSnapshot.After(result.OldestSnapshot))

		_, err = svc.Reports().Get(context.Background(), "a-old-4")
		assert.NoError(t, err, "dry run must not delete")
	})

	t.Run("delete", func(t *testing.T) {
		svc := setup(t)
		ctx := context.Background()
		result, err := svc.pruneReports(ctx, policy, false, now)
		require.NoError(t, err)
		assert.Equal(t, 3, result.RemovedSnapshots)

		for _, id := range []string{"a-old-2", "a-old-3", "a-old-4"} {
			_, err := svc.Reports().Get(ctx, id)
			assert.ErrorIs(t, err, ErrReportNotFound, id)
		}
		for _, id := range []string{"a-recent", "a-old-1", "a-opt", "b-old"} {
			_, err := svc.Reports().Get(ctx, id)
			assert.NoError(t, err, id)
		}
	})

	t.Run("minimum age protects recent snapshots", func(t *testing.T) {
		svc := NewTestService(t)
		for i := range 5 {
			insertSnapshot(t, svc, fmt.Sprintf("r-%d", i), "analysis", "R", now.Add(-time.Duration(i)*time.Hour))
		}
		result, err := svc.pruneReports(context.Background(), RetentionPolicy{MinimumAge: 24 * time.Hour}, false, now)
		require.NoError(t, err)
		assert.Zero(t, result.RemovedSnapshots)
	})

	t.Run("empty", func(t *testing.T) {
		result, err := NewTestService(t).PruneReports(context.Background(), DefaultRetentionPolicy(), false)
		require.NoError(t, err)
		assert.Zero(t, result.TotalSnapshots)
	})
}
