// Package probability computes opening-hand odds for a deck.
package probability

import (
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
)

// OpeningHandSize is the number of cards drawn before setup.
const OpeningHandSize = 7

// Choose returns the binomial coefficient C(n, k), or 0 when k is out of range.
func Choose(n, k int) float64 {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	result := 1.0
	for i := 1; i <= k; i++ {
		result = result * float64(n-k+i) / float64(i)
	}
	return result
}

// Hypergeometric returns the probability of exactly k successes when
// drawing draws cards from population cards of which successes match.
func Hypergeometric(population, successes, draws, k int) float64 {
	if population <= 0 || successes > population || draws > population {
		return 0
	}
	return Choose(successes, k) * Choose(population-successes, draws-k) / Choose(population, draws)
}

// AtLeastOne returns the probability of drawing at least one success.
func AtLeastOne(population, successes, draws int) float64 {
	return 1 - Hypergeometric(population, successes, draws, 0)
}

// MulliganProbability is the chance an opening hand holds no Basic Pokémon:
// C(deckSize-basics, 7) / C(deckSize, 7).
func MulliganProbability(basics, deckSize int) float64 {
	return Hypergeometric(deckSize, basics, OpeningHandSize, 0)
}

// OpeningHandReport summarises the odds of a legal opening hand.
type OpeningHandReport struct {
	DeckSize            int     `json:"deckSize"`
	BasicPokemon        int     `json:"basicPokemon"`
	MulliganProbability float64 `json:"mulliganProbability"`
	AtLeastTwoBasics    float64 `json:"atLeastTwoBasics"`
	// ExpectedMulligans is the mean number of redraws per game. Zero when
	// the deck can never open, since the count is unbounded.
	ExpectedMulligans float64 `json:"expectedMulligans"`
}

// OpeningHand evaluates a deck list.
func OpeningHand(entries []cards.DeckEntry) OpeningHandReport {
	size := cards.TotalCards(entries)
	basics := cards.BasicPokemonCount(entries)

	r := OpeningHandReport{DeckSize: size, BasicPokemon: basics}
	if size == 0 || basics == 0 {
		r.MulliganProbability = 1
		return r
	}

	draws := min(OpeningHandSize, size)
	p := Hypergeometric(size, basics, draws, 0)
	r.MulliganProbability = p
	r.AtLeastTwoBasics = 1 - p - Hypergeometric(size, basics, draws, 1)
	if p < 1 {
		r.ExpectedMulligans = p / (1 - p)
	}
	return r
}
