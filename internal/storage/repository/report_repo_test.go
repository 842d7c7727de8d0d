package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage"
)

type sampleReport struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

func TestReportRepository_SaveAndGet(t *testing.T) {
	svc := storage.NewTestService(t)
	ctx := context.Background()

	id, err := svc.Reports().Save(ctx, "coherence", "deck-1", sampleReport{Score: 85, Issues: []string{"Mixed prize strategy"}})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err, "snapshot ids are UUIDs")

	snap, err := svc.Reports().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "coherence", snap.Kind)
	assert.Equal(t, "deck-1", snap.DeckHash)
	assert.False(t, snap.CreatedAt.IsZero())

	var decoded sampleReport
	require.NoError(t, snap.Decode(&decoded))
	assert.Equal(t, sampleReport{Score: 85, Issues: []string{"Mixed prize strategy"}}, decoded)
}

func TestReportRepository_ListByDeck(t *testing.T) {
	svc := storage.NewTestService(t)
	ctx := context.Background()

	saved := map[string]bool{}
	for i := 0; i < 3; i++ {
		id, err := svc.Reports().Save(ctx, "analysis", "deck-1", sampleReport{Score: i})
		require.NoError(t, err)
		saved[id] = true
	}
	_, err := svc.Reports().Save(ctx, "analysis", "deck-2", sampleReport{})
	require.NoError(t, err)

	list, err := svc.Reports().ListByDeck(ctx, "deck-1", 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, s := range list {
		assert.True(t, saved[s.ID], "unexpected snapshot %s", s.ID)
	}

	limited, err := svc.Reports().ListByDeck(ctx, "deck-1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
