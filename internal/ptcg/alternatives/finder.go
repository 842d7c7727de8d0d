// Package alternatives finds cheaper substitutes for a card in the stored
// catalog, ranked by how closely they resemble it.
package alternatives

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/budget"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
)

// DefaultPoolSize is how many price-eligible candidates are scored per lookup.
const DefaultPoolSize = 200

// CandidateSource lists priced cards of a supertype at or below a price.
type CandidateSource interface {
	ListCheaperAlternatives(ctx context.Context, supertype cards.Supertype, maxPrice float64, excludeID string, limit int) ([]cards.Card, error)
}

// Finder implements budget.AlternativeFinder over a CandidateSource.
type Finder struct {
	source   CandidateSource
	poolSize int
}

var _ budget.AlternativeFinder = (*Finder)(nil)

// NewFinder creates a finder. poolSize <= 0 uses DefaultPoolSize.
func NewFinder(source CandidateSource, poolSize int) *Finder {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	return &Finder{source: source, poolSize: poolSize}
}

// FindAlternatives returns up to limit cards of the same supertype priced at
// or below maxPrice, most similar first, then cheapest, then by ID.
func (f *Finder) FindAlternatives(ctx context.Context, card cards.Card, maxPrice float64, limit int) ([]budget.Alternative, error) {
	if limit <= 0 || maxPrice <= 0 {
		return []budget.Alternative{}, nil
	}

	candidates, err := f.source.ListCheaperAlternatives(ctx, card.Supertype, maxPrice, card.ID, f.poolSize)
	if err != nil {
		return nil, fmt.Errorf("list candidates for %s: %w", card.ID, err)
	}

	alts := make([]budget.Alternative, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == card.ID || strings.EqualFold(c.Name, card.Name) {
			continue
		}
		price := c.UnitPrice()
		if price <= 0 || price > maxPrice {
			continue
		}
		alts = append(alts, budget.Alternative{
			Card:       c,
			Price:      price,
			Similarity: Similarity(card, c),
		})
	}

	sort.SliceStable(alts, func(i, j int) bool {
		a, b := alts[i], alts[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.Card.ID < b.Card.ID
	})
	return lo.Slice(alts, 0, limit), nil
}

// Similarity scores how alike two cards are, from 0 to 1. Pokémon compare
// subtypes, types, HP and damage output; other cards compare subtypes and
// name words.
func Similarity(a, b cards.Card) float64 {
	if a.IsPokemon() && b.IsPokemon() {
		return 0.35*jaccard(a.Subtypes, b.Subtypes) +
			0.30*jaccard(a.Types, b.Types) +
			0.20*closeness(a.HP, b.HP) +
			0.15*closeness(a.MaxDamage(), b.MaxDamage())
	}
	return 0.7*jaccard(a.Subtypes, b.Subtypes) +
		0.3*jaccard(cards.NameTokens(a.Name), cards.NameTokens(b.Name))
}

// jaccard is case-insensitive. Two empty sets are identical.
func jaccard(a, b []string) float64 {
	lower := func(s string, _ int) string { return strings.ToLower(s) }
	sa := lo.Uniq(lo.Map(a, lower))
	sb := lo.Uniq(lo.Map(b, lower))
	if len(sa) == 0 && len(sb) == 0 {
		return 1
	}
	inter := lo.CountBy(sa, func(s string) bool { return lo.Contains(sb, s) })
	return float64(inter) / float64(len(sa)+len(sb)-inter)
}

// closeness is 1 for equal values and falls linearly to 0 as one value
// approaches zero relative to the other.
func closeness(a, b int) float64 {
	hi := max(a, b)
	if hi <= 0 {
		return 1
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/float64(hi)
}
