package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards/cardtest"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage"
)

func seedCards(t *testing.T, svc *storage.Service, list ...cards.Card) {
	t.Helper()
	for _, c := range list {
		require.NoError(t, svc.Cards().Upsert(context.Background(), c))
	}
}

func ids(list []cards.Card) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func TestCardRepository_RoundTrip(t *testing.T) {
	svc := storage.NewTestService(t)
	ctx := context.Background()

	card := cardtest.WithPrice(cardtest.WithAttack(cardtest.Pokemon("Charizard ex", 330, "Stage 2", "ex"), "180", "Fire", "Fire"), 12)
	card.EvolvesFrom = "Charmeleon"
	card.SetID = "sv3"
	seedCards(t, svc, card)

	got, err := svc.Cards().GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card, got)
}

func TestCardRepository_UpsertRequiresID(t *testing.T) {
	svc := storage.NewTestService(t)
	err := svc.Cards().Upsert(context.Background(), cardtest.WithID(cardtest.Pokemon("Nameless", 60), ""))
	assert.Error(t, err)
}

func TestCardRepository_FindByName(t *testing.T) {
	svc := storage.NewTestService(t)
	ctx := context.Background()

	seedCards(t, svc,
		cardtest.WithID(cardtest.WithPrice(cardtest.Trainer("Nest Ball", "Item"), 0.5), "nest-sv1"),
		cardtest.WithID(cardtest.WithPrice(cardtest.Trainer("Nest Ball", "Item"), 0.2), "nest-sv8"),
		cardtest.WithPrice(cardtest.Trainer("Ultra Ball", "Item"), 1),
	)

	found, err := svc.Cards().FindByName(ctx, "  nest BALL ")
	require.NoError(t, err)
	assert.Equal(t, []string{"nest-sv8", "nest-sv1"}, ids(found))

	none, err := svc.Cards().FindByName(ctx, "Quick Ball")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCardRepository_Search(t *testing.T) {
	svc := storage.NewTestService(t)
	ctx := context.Background()

	seedCards(t, svc,
		cardtest.Trainer("Nest Ball", "Item"),
		cardtest.Trainer("Ultra Ball", "Item"),
		cardtest.Trainer("Boss's Orders", "Supporter"),
		cardtest.WithID(cardtest.Trainer("100% Ball", "Item"), "percent-ball"),
	)

	found, err := svc.Cards().Search(ctx, "ball", 10)
	require.NoError(t, err)
	assert.Len(t, found, 3)

	limited, err := svc.Cards().Search(ctx, "ball", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	literal, err := svc.Cards().Search(ctx, "%", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"percent-ball"}, ids(literal), "LIKE wildcards are matched literally")
}

func TestCardRepository_ListCheaperAlternatives(t *testing.T) {
	svc := storage.NewTestService(t)
	ctx := context.Background()

	seedCards(t, svc,
		cardtest.WithPrice(cardtest.Pokemon("Charizard ex", 330, "Stage 2", "ex"), 30),
		cardtest.WithPrice(cardtest.Pokemon("Arcanine", 130), 2),
		cardtest.WithPrice(cardtest.Pokemon("Ninetales", 120, "Stage 1"), 1),
		cardtest.WithPrice(cardtest.Pokemon("Moltres", 120), 25),
		cardtest.Pokemon("Unpriced", 100),
		cardtest.WithPrice(cardtest.Trainer("Rare Candy", "Item"), 0.5),
	)

	alts, err := svc.Cards().ListCheaperAlternatives(ctx, cards.SupertypePokemon, 21, "charizard-ex", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ninetales", "arcanine"}, ids(alts))

	limited, err := svc.Cards().ListCheaperAlternatives(ctx, cards.SupertypePokemon, 100, "charizard-ex", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ninetales"}, ids(limited))
}
