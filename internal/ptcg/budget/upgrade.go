package budget

import (
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/catalog"
)

// UpgradeStep is one rung of an upgrade path with the copies still needed.
type UpgradeStep struct {
	Step           int                   `json:"step"`
	Name           string                `json:"name"`
	Description    string                `json:"description"`
	Cards          []catalog.UpgradeCard `json:"cards"`
	Cost           float64               `json:"cost"`
	CumulativeCost float64               `json:"cumulativeCost"`
}

// UpgradePath is an ordered ladder of purchases.
type UpgradePath struct {
	CurrentValue float64       `json:"currentValue"`
	MaxBudget    float64       `json:"maxBudget"`
	Steps        []UpgradeStep `json:"steps"`
	TotalCost    float64       `json:"totalCost"`
}

// GenerateUpgradePath walks the catalog's upgrade tiers in order, listing
// the copies the deck does not already run. Tiers the deck already
// completes are skipped. The ladder stops at steps rungs (all when steps
// <= 0) or before the first rung that would exceed maxBudget (no limit when
// maxBudget <= 0).
func GenerateUpgradePath(c *catalog.Catalog, entries []cards.DeckEntry, maxBudget float64, steps int) UpgradePath {
	if c == nil {
		c = catalog.Default()
	}
	path := UpgradePath{
		CurrentValue: cards.TotalValue(entries),
		MaxBudget:    maxBudget,
		Steps:        make([]UpgradeStep, 0),
	}

	for _, tier := range c.UpgradeTiers {
		if steps > 0 && len(path.Steps) >= steps {
			break
		}

		needed := make([]catalog.UpgradeCard, 0, len(tier.Cards))
		cost := 0.0
		for _, card := range tier.Cards {
			missing := card.Quantity - cards.CountNamed(entries, card.Name)
			if missing <= 0 {
				continue
			}
			needed = append(needed, catalog.UpgradeCard{Name: card.Name, Quantity: missing, Price: card.Price})
			cost += card.Price * float64(missing)
		}
		if len(needed) == 0 {
			continue
		}
		if maxBudget > 0 && path.TotalCost+cost > maxBudget {
			break
		}

		path.TotalCost += cost
		path.Steps = append(path.Steps, UpgradeStep{
			Step:           len(path.Steps) + 1,
			Name:           tier.Name,
			Description:    tier.Description,
			Cards:          needed,
			Cost:           cost,
			CumulativeCost: path.TotalCost,
		})
	}
	return path
}
