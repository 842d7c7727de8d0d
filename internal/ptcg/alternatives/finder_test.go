package alternatives

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards/cardtest"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage"
)

type staticSource struct {
	list []cards.Card
	err  error
}

func (s staticSource) ListCheaperAlternatives(_ context.Context, _ cards.Supertype, _ float64, _ string, _ int) ([]cards.Card, error) {
	return s.list, s.err
}

func fire(name string, hp int, damage string, price float64, subtypes ...string) cards.Card {
	c := cardtest.WithAttack(cardtest.Pokemon(name, hp, subtypes...), damage, "Fire")
	c.Types = []string{"Fire"}
	return cardtest.WithPrice(c, price)
}

func charizardEx() cards.Card {
	return fire("Charizard ex", 330, "180", 30, "Stage 2", "ex")
}

func candidatePool() []cards.Card {
	palafin := cardtest.WithPrice(cardtest.WithAttack(cardtest.Pokemon("Palafin", 150), "210", "Water"), 3)
	palafin.Types = []string{"Water"}

	return []cards.Card{
		palafin,
		fire("Arcanine ex", 280, "220", 4, "Stage 1", "ex"),
		fire("Charizard", 170, "180", 5, "Stage 2"),
		cardtest.WithID(fire("Charizard", 170, "180", 3, "Stage 2"), "charizard-cheap"),
		cardtest.WithID(fire("Charizard ex", 330, "180", 10, "Stage 2", "ex"), "charizard-ex-reprint"),
		fire("Too Expensive", 330, "180", 25, "Stage 2", "ex"),
	}
}

func TestFindAlternativesRanking(t *testing.T) {
	finder := NewFinder(staticSource{list: candidatePool()}, 0)

	alts, err := finder.FindAlternatives(context.Background(), charizardEx(), 21, 3)
	require.NoError(t, err)

	got := make([]string, 0, len(alts))
	for _, a := range alts {
		got = append(got, a.Card.ID)
	}
	if diff := cmp.Diff([]string{"charizard-cheap", "charizard", "arcanine-ex"}, got); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 3, alts[0].Price, 1e-9)
	for _, a := range alts {
		assert.GreaterOrEqual(t, a.Similarity, 0.0)
		assert.LessOrEqual(t, a.Similarity, 1.0)
	}
}

func TestFindAlternativesEdgeCases(t *testing.T) {
	finder := NewFinder(staticSource{list: candidatePool()}, 10)

	none, err := finder.FindAlternatives(context.Background(), charizardEx(), 0, 5)
	require.NoError(t, err)
	assert.Empty(t, none)

	none, err = finder.FindAlternatives(context.Background(), charizardEx(), 21, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	failing := NewFinder(staticSource{err: errors.New("database is locked")}, 10)
	_, err = failing.FindAlternatives(context.Background(), charizardEx(), 21, 5)
	assert.ErrorContains(t, err, "database is locked")
}

func TestSimilarity(t *testing.T) {
	ultra := cardtest.Trainer("Ultra Ball", "Item")
	nest := cardtest.Trainer("Nest Ball", "Item")
	iono := cardtest.Trainer("Iono", "Supporter")

	tests := []struct {
		name     string
		a, b     cards.Card
		expected float64
	}{
		{"identical pokemon", charizardEx(), charizardEx(), 1},
		{"same line different rule box", charizardEx(), fire("Charizard", 170, "180", 5, "Stage 2"), 0.175 + 0.3 + 0.2*(170.0/330.0) + 0.15},
		{"items sharing a word", ultra, nest, 0.7 + 0.3/3},
		{"unrelated trainers", ultra, iono, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Similarity() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFinderOverStorage(t *testing.T) {
	svc := storage.NewTestService(t)
	ctx := context.Background()

	for _, c := range append(candidatePool(), charizardEx(), cardtest.WithPrice(cardtest.Trainer("Nest Ball", "Item"), 1)) {
		require.NoError(t, svc.Cards().Upsert(ctx, c))
	}

	alts, err := NewFinder(svc.Cards(), 0).FindAlternatives(ctx, charizardEx(), 21, 5)
	require.NoError(t, err)

	got := make([]string, 0, len(alts))
	for _, a := range alts {
		got = append(got, a.Card.ID)
	}
	assert.Equal(t, []string{"charizard-cheap", "charizard", "arcanine-ex", "palafin"}, got)
}
