// Package budget substitutes expensive cards with cheaper alternatives until
// a deck fits a budget, and builds upgrade ladders for the other direction.
package budget

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/catalog"
)

const (
	alternativePriceRatio = 0.7
	alternativeLimit      = 5
	similarityWeight      = 0.6
	priceWeight           = 0.4
)

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger. Finder failures are logged at warn level.
func WithLogger(l *zap.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers a callback invoked after each applied change.
func WithObserver(fn func(DeckChange)) Option {
	return func(o *Optimizer) {
		o.onChange = fn
	}
}

// WithLookupHook registers a callback invoked after every finder call.
func WithLookupHook(fn func(elapsed time.Duration, err error)) Option {
	return func(o *Optimizer) {
		o.onLookup = fn
	}
}

// WithPrefetch looks up the next n candidates concurrently whenever the
// walk reaches a card it has no result for. Results are still applied one
// card at a time in iteration order. n <= 1 keeps lookups sequential.
func WithPrefetch(n int) Option {
	return func(o *Optimizer) {
		o.prefetch = n
	}
}

// Optimizer runs budget optimizations. Safe for concurrent use as long as
// the finder and callbacks are.
type Optimizer struct {
	catalog  *catalog.Catalog
	finder   AlternativeFinder
	logger   *zap.Logger
	onChange func(DeckChange)
	onLookup func(time.Duration, error)
	prefetch int
}

// NewOptimizer creates an optimizer. A nil catalog uses the built-in defaults.
func NewOptimizer(c *catalog.Catalog, finder AlternativeFinder, opts ...Option) *Optimizer {
	if c == nil {
		c = catalog.Default()
	}
	o := &Optimizer{
		catalog: c,
		finder:  finder,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// candidate is a deck entry waiting to be visited.
type candidate struct {
	index int
	entry cards.DeckEntry
}

// lookup holds the finder result for one candidate.
type lookup struct {
	alternatives []Alternative
	done         bool
}

// Optimize swaps cards for cheaper alternatives until the deck costs at most
// req.Budget or req.MaxChanges swaps have been made. The only error is a
// cancelled context.
func (o *Optimizer) Optimize(ctx context.Context, req Request) (*Report, error) {
	working := append([]cards.DeckEntry(nil), req.Entries...)
	originalCost := cards.TotalValue(req.Entries)
	currentCost := originalCost
	maxChanges := max(0, req.MaxChanges)

	owned := lo.SliceToMap(req.OwnedCardIDs, func(id string) (string, bool) { return id, true })
	queue := o.visitOrder(req.Entries, req.PriorityMode, owned)

	lookups := make([]lookup, len(queue))

	changes := make([]DeckChange, 0)
	for i, c := range queue {
		if currentCost <= req.Budget || len(changes) >= maxChanges {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !lookups[i].done {
			if o.prefetch > 1 && o.finder != nil {
				if err := o.prefetchWindow(ctx, queue, lookups, i); err != nil {
					return nil, err
				}
			} else {
				lookups[i] = lookup{alternatives: o.find(ctx, c.entry.Card), done: true}
			}
		}

		unitPrice := c.entry.Card.UnitPrice()
		qty := float64(c.entry.Quantity)
		remaining := req.Budget - (currentCost - unitPrice*qty)

		best, ok := pickAlternative(c.entry.Card, lookups[i].alternatives, unitPrice*alternativePriceRatio, remaining)
		if !ok {
			continue
		}

		newCard := withUnitPrice(best.Card, best.Price)
		oldCard := c.entry.Card
		savings := (unitPrice - best.Price) * qty
		change := DeckChange{
			Action:   ActionReplace,
			OldCard:  &oldCard,
			NewCard:  &newCard,
			OldName:  oldCard.Name,
			NewName:  newCard.Name,
			Quantity: c.entry.Quantity,
			Reason: fmt.Sprintf("%s costs $%.2f each; %s is %.0f%% similar at $%.2f",
				oldCard.Name, unitPrice, newCard.Name, best.Similarity*100, best.Price),
			Savings: savings,
		}

		currentCost -= savings
		working[c.index] = cards.DeckEntry{Card: newCard, Quantity: c.entry.Quantity}
		changes = append(changes, change)

		o.logger.Debug("applied budget change",
			zap.String("old", change.OldName),
			zap.String("new", change.NewName),
			zap.Float64("savings", savings),
			zap.Float64("current_cost", currentCost))
		if o.onChange != nil {
			o.onChange(change)
		}
	}

	report := &Report{
		OptimizedDeck: working,
		OriginalCost:  originalCost,
		TotalCost:     currentCost,
		Changes:       changes,
	}
	report.Tradeoffs = tradeoffs(req, working, changes)
	report.Warnings = warnings(changes, report.Tradeoffs)
	report.Recommendation = recommendation(req.Budget, report)
	return report, nil
}

// visitOrder lists the entries the optimizer may touch, most expensive
// first. Consistency mode visits Trainers, then Energy, then Pokémon.
func (o *Optimizer) visitOrder(entries []cards.DeckEntry, mode PriorityMode, owned map[string]bool) []candidate {
	queue := make([]candidate, 0, len(entries))
	for i, e := range entries {
		if o.isProtected(e.Card, mode, owned) {
			continue
		}
		queue = append(queue, candidate{index: i, entry: e})
	}

	sort.SliceStable(queue, func(i, j int) bool {
		if mode == PriorityConsistency {
			gi, gj := supertypeGroup(queue[i].entry.Card), supertypeGroup(queue[j].entry.Card)
			if gi != gj {
				return gi < gj
			}
		}
		return queue[i].entry.Card.UnitPrice() > queue[j].entry.Card.UnitPrice()
	})
	return queue
}

func (o *Optimizer) isProtected(c cards.Card, mode PriorityMode, owned map[string]bool) bool {
	switch {
	case owned[c.ID]:
		return true
	case c.IsBasicEnergy():
		return true
	case mode == PriorityConsistency && c.IsTrainer() && o.catalog.IsStapleTrainer(c.Name):
		return true
	case c.UnitPrice() <= 0:
		return true
	}
	return false
}

func supertypeGroup(c cards.Card) int {
	switch c.Supertype {
	case cards.SupertypeTrainer:
		return 0
	case cards.SupertypeEnergy:
		return 1
	}
	return 2
}

// find calls the finder, treating any failure as no alternatives.
func (o *Optimizer) find(ctx context.Context, card cards.Card) []Alternative {
	if o.finder == nil {
		return nil
	}
	start := time.Now()
	alts, err := o.finder.FindAlternatives(ctx, card, card.UnitPrice()*alternativePriceRatio, alternativeLimit)
	if o.onLookup != nil {
		o.onLookup(time.Since(start), err)
	}
	if err != nil {
		o.logger.Warn("alternative lookup failed",
			zap.String("card_id", card.ID),
			zap.String("card", card.Name),
			zap.Error(err))
		return nil
	}
	return alts
}

// prefetchWindow looks up the next o.prefetch candidates starting at from
// concurrently. The walk stops as soon as the budget is met, so at most
// o.prefetch-1 lookups go unused.
func (o *Optimizer) prefetchWindow(ctx context.Context, queue []candidate, lookups []lookup, from int) error {
	g, gctx := errgroup.WithContext(ctx)
	end := min(from+o.prefetch, len(queue))

	for i := from; i < end; i++ {
		c := queue[i]
		g.Go(func() error {
			// Each goroutine owns lookups[i].
			lookups[i] = lookup{alternatives: o.find(gctx, c.entry.Card), done: true}
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

// pickAlternative returns the best-scoring affordable alternative. Ties go
// to the earlier result.
func pickAlternative(card cards.Card, alts []Alternative, maxPrice, remaining float64) (Alternative, bool) {
	if remaining <= 0 {
		return Alternative{}, false
	}

	var best Alternative
	bestScore, found := 0.0, false
	for _, alt := range alts {
		if alt.Card.ID == card.ID || alt.Price < 0 || alt.Price > maxPrice || alt.Price > remaining {
			continue
		}
		score := alt.Similarity*similarityWeight + (1-alt.Price/remaining)*priceWeight
		if !found || score > bestScore {
			best, bestScore, found = alt, score, true
		}
	}
	return best, found
}

// withUnitPrice makes sure the swapped-in card reports the price it was
// chosen at.
func withUnitPrice(c cards.Card, usd float64) cards.Card {
	if c.UnitPrice() == usd {
		return c
	}
	prices := []cards.Price{{Currency: "USD", Price: usd, IsCurrent: true}}
	for _, p := range c.Prices {
		if !strings.EqualFold(p.Currency, "USD") {
			prices = append(prices, p)
		}
	}
	c.Prices = prices
	return c
}
