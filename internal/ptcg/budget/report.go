package budget

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
)

const (
	minTrainersMaintained = 20
	premiumPrice          = 10.0
	priorScoreForLoss     = 80
	manyChanges           = 10
	fewChanges            = 5
	bossOrders            = "Boss's Orders"
)

func tradeoffs(req Request, optimized []cards.DeckEntry, changes []DeckChange) Tradeoffs {
	t := Tradeoffs{
		Maintained:  make([]string, 0),
		Compromised: make([]string, 0),
		Lost:        make([]string, 0),
	}

	if cards.CountBySupertype(optimized, cards.SupertypePokemon) >= 1 &&
		cards.CountBySupertype(optimized, cards.SupertypeTrainer) >= minTrainersMaintained {
		t.Maintained = append(t.Maintained, "Core Pokémon lineup and Trainer engine are intact")
	}

	if lo.ContainsBy(changes, func(c DeckChange) bool {
		return c.OldCard != nil && c.OldCard.UnitPrice() > premiumPrice
	}) {
		t.Compromised = append(t.Compromised, "Premium cards were swapped for budget versions with weaker effects")
	}

	if req.PriorReport != nil && req.PriorReport.CoherenceScore > priorScoreForLoss &&
		cards.TotalCards(optimized) < cards.TotalCards(req.Entries) {
		t.Lost = append(t.Lost, "The deck's previously strong consistency")
	}
	return t
}

func warnings(changes []DeckChange, t Tradeoffs) []string {
	out := make([]string, 0)
	if len(changes) > manyChanges {
		out = append(out, fmt.Sprintf("%d changes is a lot; playtest the new list before an event", len(changes)))
	}
	if lo.ContainsBy(changes, func(c DeckChange) bool { return strings.Contains(c.OldName, bossOrders) }) {
		out = append(out, "Replacing Boss's Orders weakens the deck's late-game knockouts")
	}
	if len(t.Lost) > 0 {
		out = append(out, "Some of what made the deck work was lost to fit the budget")
	}
	return out
}

func recommendation(budget float64, r *Report) string {
	position := budgetPosition(budget, r.TotalCost)
	n := len(r.Changes)

	switch {
	case n == 0 && r.TotalCost <= budget:
		return fmt.Sprintf("Your deck is already optimized for this budget: it costs $%.2f, %s.", r.TotalCost, position)
	case n == 0:
		return fmt.Sprintf("No affordable alternatives were found: the deck costs $%.2f, %s.", r.TotalCost, position)
	case n <= fewChanges && len(r.Tradeoffs.Maintained) > len(r.Tradeoffs.Lost):
		return fmt.Sprintf("%d targeted swaps keep the deck's core intact and save $%.2f; it is now %s.",
			n, r.OriginalCost-r.TotalCost, position)
	case n <= manyChanges:
		return fmt.Sprintf("%d changes bring the deck to $%.2f, %s. Test the new cards before relying on them.",
			n, r.TotalCost, position)
	}
	return fmt.Sprintf("%d changes reshape the deck to $%.2f, %s. Consider building toward the original list over time.",
		n, r.TotalCost, position)
}

// budgetPosition phrases (budget-cost)/budget as a percentage.
func budgetPosition(budget, cost float64) string {
	if budget <= 0 {
		return "with no budget set"
	}
	pct := (budget - cost) / budget * 100
	if pct >= 0 {
		return fmt.Sprintf("%.1f%% under budget", pct)
	}
	return fmt.Sprintf("%.1f%% over budget", math.Abs(pct))
}
