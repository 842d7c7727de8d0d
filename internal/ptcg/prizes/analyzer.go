// Package prizes scores how well a deck trades prize cards against a
// synthetic meta roster.
package prizes

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/catalog"
)

const (
	maxPrizes       = 6
	maxTraders      = 5
	maxLiabilities  = 5
	maxScenarios    = 10
	maxTurnsToKO    = 3
	liabilityMaxHP  = 250
	criticalHP      = 200
	criticalHPThree = 300
	baseEfficiency  = 50
	scenarioBonus   = 4
	maxScenarioBump = 20
)

// Analyzer computes prize economy reports. Safe for concurrent use.
type Analyzer struct {
	roster []catalog.Opponent
}

// NewAnalyzer creates an analyzer that simulates trades against the
// catalog's opponent roster. A nil catalog uses the built-in defaults.
func NewAnalyzer(c *catalog.Catalog) *Analyzer {
	if c == nil {
		c = catalog.Default()
	}
	return &Analyzer{roster: c.OpponentRoster}
}

// Analyze builds the report. Decks without Pokémon get neutral values.
func (a *Analyzer) Analyze(entries []cards.DeckEntry) Report {
	pokemon := cards.Pokemon(entries)

	traders := bestTraders(pokemon)
	scenarios := a.scenarios(pokemon)
	avg := averagePrizeValue(pokemon)

	report := Report{
		AveragePrizeValue: avg,
		PrizeLiability:    prizeLiability(pokemon),
		BestTraders:       lo.Slice(traders, 0, maxTraders),
		WorstLiabilities:  worstLiabilities(pokemon),
		Scenarios:         lo.Slice(scenarios, 0, maxScenarios),
		Strategy:          strategyFor(pokemon),
	}
	report.OverallEfficiency = overallEfficiency(avg, report.BestTraders, report.Scenarios)
	report.Recommendations = recommend(report, len(traders))
	return report
}

// averagePrizeValue is weighted by quantity, 1 for decks without Pokémon.
func averagePrizeValue(pokemon []cards.DeckEntry) float64 {
	total := lo.SumBy(pokemon, func(e cards.DeckEntry) int { return e.Quantity })
	if total == 0 {
		return 1
	}
	return float64(totalPrizes(pokemon)) / float64(total)
}

func prizeLiability(pokemon []cards.DeckEntry) int {
	return min(maxPrizes, totalPrizes(pokemon))
}

func totalPrizes(pokemon []cards.DeckEntry) int {
	return lo.SumBy(pokemon, func(e cards.DeckEntry) int {
		return cards.PrizeValue(e.Card) * e.Quantity
	})
}

// bestTraders ranks every attacking entry by damage per prize, stable on ties.
func bestTraders(pokemon []cards.DeckEntry) []Trader {
	traders := make([]Trader, 0, len(pokemon))
	for _, p := range pokemon {
		damage := p.Card.MaxDamage()
		if damage == 0 {
			continue
		}
		pv := cards.PrizeValue(p.Card)
		traders = append(traders, Trader{
			Name:       p.Card.Name,
			PrizeValue: pv,
			MaxDamage:  damage,
			Efficiency: float64(damage) / float64(pv),
		})
	}
	sort.SliceStable(traders, func(i, j int) bool {
		return traders[i].Efficiency > traders[j].Efficiency
	})
	return traders
}

func worstLiabilities(pokemon []cards.DeckEntry) []Liability {
	liabilities := make([]Liability, 0)
	for _, p := range pokemon {
		pv := cards.PrizeValue(p.Card)
		if pv < 2 {
			continue
		}
		hp := p.Card.HP

		var reason string
		switch {
		case hp < liabilityMaxHP:
			reason = fmt.Sprintf("Gives up %d prizes with only %d HP", pv, hp)
		case len(p.Card.Attacks) == 0:
			reason = fmt.Sprintf("Gives up %d prizes without being able to attack", pv)
		default:
			continue
		}

		risk := RiskHigh
		if hp < criticalHP || (pv == 3 && hp < criticalHPThree) {
			risk = RiskCritical
		}
		liabilities = append(liabilities, Liability{
			Name:       p.Card.Name,
			PrizeValue: pv,
			HP:         hp,
			Risk:       risk,
			Reason:     reason,
		})
	}

	sort.SliceStable(liabilities, func(i, j int) bool {
		return exposure(liabilities[i]) > exposure(liabilities[j])
	})
	return lo.Slice(liabilities, 0, maxLiabilities)
}

// exposure is prizes per HP. A Pokémon without HP is maximally exposed.
func exposure(l Liability) float64 {
	if l.HP <= 0 {
		return math.Inf(1)
	}
	return float64(l.PrizeValue) / float64(l.HP)
}

// scenarios crosses each attacker with every roster entry it can knock out
// within three turns, sorted by trade ratio.
func (a *Analyzer) scenarios(pokemon []cards.DeckEntry) []TradeScenario {
	out := make([]TradeScenario, 0)
	for _, p := range pokemon {
		damage := p.Card.MaxDamage()
		if damage == 0 {
			continue
		}
		pv := cards.PrizeValue(p.Card)
		for _, opp := range a.roster {
			turns := turnsToKO(opp.HP, damage)
			if turns > maxTurnsToKO {
				continue
			}
			ratio := float64(opp.Prizes) / float64(pv)
			out = append(out, TradeScenario{
				Attacker:           p.Card.Name,
				YourPrizeValue:     pv,
				OpponentTarget:     opp.Name,
				OpponentPrizeValue: opp.Prizes,
				TurnsToKO:          turns,
				TradeRatio:         ratio,
				Evaluation:         evaluate(ratio / float64(turns)),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TradeRatio > out[j].TradeRatio
	})
	return out
}

func turnsToKO(hp, damage int) int {
	damage = max(1, damage)
	return (hp + damage - 1) / damage
}

func evaluate(score float64) Evaluation {
	switch {
	case score >= 2:
		return EvaluationExcellent
	case score >= 1.5:
		return EvaluationFavorable
	case score >= 0.8:
		return EvaluationEven
	case score >= 0.5:
		return EvaluationUnfavorable
	}
	return EvaluationTerrible
}

func overallEfficiency(avg float64, traders []Trader, scenarios []TradeScenario) int {
	score := baseEfficiency

	switch {
	case avg <= 1.3:
		score += 20
	case avg <= 1.6:
		score += 10
	case avg >= 2.0:
		score -= 10
	}

	if len(traders) > 0 {
		mean := lo.SumBy(traders, func(t Trader) float64 { return t.Efficiency }) / float64(len(traders))
		switch {
		case mean >= 150:
			score += 20
		case mean >= 100:
			score += 10
		case mean < 50:
			score -= 10
		}
	}

	good := lo.CountBy(scenarios, func(s TradeScenario) bool {
		return s.Evaluation == EvaluationExcellent || s.Evaluation == EvaluationFavorable
	})
	score += min(maxScenarioBump, good*scenarioBonus)

	return max(0, min(100, score))
}
