package coherence

import (
	"strings"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
)

const singlePrizeAggroMaxAvgHP = 100

// primaryStrategy labels the deck using the catalog's ordered rules,
// falling back to the dominant rule-box subtype. Nil when nothing applies.
func (v *Validator) primaryStrategy(d *deckView) *string {
	if len(d.pokemon) == 0 {
		return nil
	}

	names := make([]string, 0, len(d.pokemon))
	for _, p := range d.pokemon {
		names = append(names, strings.ToLower(p.Card.Name))
	}
	joined := strings.Join(names, " ")

	for _, rule := range v.catalog.StrategyRules {
		if rule.Matches(joined) {
			label := rule.Label
			return &label
		}
	}

	var label string
	switch {
	case d.anyPokemon(func(c cards.Card) bool { return c.HasSubtype(cards.SubtypeVMAX) }):
		label = "VMAX Beatdown"
	case d.anyPokemon(func(c cards.Card) bool { return c.HasSubtype(cards.SubtypeVSTAR) }):
		label = "VSTAR Toolbox"
	case d.anyPokemon(func(c cards.Card) bool {
		return c.HasSubtype(cards.SubtypeEx) || strings.Contains(c.Name, " ex")
	}):
		label = "ex Aggro"
	case d.averageHP() < singlePrizeAggroMaxAvgHP:
		label = "Single Prize Aggro"
	default:
		return nil
	}
	return &label
}

func (d *deckView) anyPokemon(pred func(cards.Card) bool) bool {
	for _, p := range d.pokemon {
		if pred(p.Card) {
			return true
		}
	}
	return false
}

// averageHP is weighted by quantity.
func (d *deckView) averageHP() float64 {
	total, count := 0, 0
	for _, p := range d.pokemon {
		total += p.Card.HP * p.Quantity
		count += p.Quantity
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// genericAdvice is emitted once per category present, in this order.
var genericAdvice = []struct {
	category Category
	text     string
}{
	{CategoryEnergy, "Streamline the Energy base so every Energy card powers an attacker."},
	{CategoryStrategy, "Pick one game plan and cut the cards that pull the deck in another direction."},
	{CategoryFormat, "Swap out rotated cards before taking the deck to a Standard event."},
}

func recommendations(issues []Issue) []string {
	recs := make([]string, 0)

	for _, issue := range issues {
		if issue.Severity != SeverityCritical {
			continue
		}
		if len(issue.Suggestions) > 0 {
			recs = append(recs, issue.Title+": "+issue.Suggestions[0])
		} else {
			recs = append(recs, issue.Title)
		}
	}

	present := make(map[Category]bool)
	for _, issue := range issues {
		present[issue.Category] = true
	}
	for _, advice := range genericAdvice {
		if present[advice.category] {
			recs = append(recs, advice.text)
		}
	}
	return recs
}
