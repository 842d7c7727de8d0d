package prizes

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
)

type gameplan struct {
	ideal    []string
	critical []string
}

var gameplans = map[Approach]gameplan{
	ApproachSinglePrize: {
		ideal: []string{
			"Trade single-prize attackers into the opponent's rule-box Pokémon",
			"Make the opponent take six separate knockouts",
			"Keep a second attacker powered up on the Bench",
		},
		critical: []string{
			"Turn 2: have the first attacker ready",
			"Turns 3-4: take knockouts on multi-prize targets",
			"Final turns: close the game before the opponent stabilises",
		},
	},
	ApproachMultiPrize: {
		ideal: []string{
			"Set up a big attacker early and take a knockout every turn",
			"Win the game in three or four big knockouts",
			"Avoid benching rule-box Pokémon that cannot attack",
		},
		critical: []string{
			"Turn 1: bench the Basic rule-box Pokémon you need",
			"Turn 2: take the first knockout",
			"Mid game: answer every knockout so the opponent never pulls ahead",
		},
	},
	ApproachMixed: {
		ideal: []string{
			"Lead with single-prize attackers to blunt the opponent's early damage",
			"Bring in multi-prize attackers once the opponent has committed",
			"Count prizes every turn and choose the attacker that keeps the trade even",
		},
		critical: []string{
			"Turn 2: decide which attacker leads",
			"Mid game: switch to the multi-prize attacker for the big knockouts",
			"Final turns: keep the last two prizes out of reach",
		},
	},
}

// strategyFor picks the primary approach by comparing copies of single and
// multi-prize Pokémon.
func strategyFor(pokemon []cards.DeckEntry) Strategy {
	single, multi := 0, 0
	for _, p := range pokemon {
		if cards.PrizeValue(p.Card) > 1 {
			multi += p.Quantity
		} else {
			single += p.Quantity
		}
	}

	approach := ApproachMixed
	switch {
	case single > 2*multi:
		approach = ApproachSinglePrize
	case multi > 2*single:
		approach = ApproachMultiPrize
	}

	plan := gameplans[approach]
	return Strategy{
		PrimaryApproach: approach,
		IdealGameplan:   append([]string(nil), plan.ideal...),
		CriticalTurns:   append([]string(nil), plan.critical...),
	}
}

func recommend(r Report, attackers int) []string {
	recs := make([]string, 0)

	if attackers == 0 {
		recs = append(recs, "Add Pokémon with damaging attacks; nothing in the deck can take a knockout")
	}
	if r.AveragePrizeValue >= 2.0 {
		recs = append(recs, "Add single-prize attackers so the opponent cannot win in three knockouts")
	}
	if len(r.WorstLiabilities) > 0 {
		worst := r.WorstLiabilities[0]
		recs = append(recs, fmt.Sprintf("Protect %s: it gives up %d prizes at %d HP", worst.Name, worst.PrizeValue, worst.HP))
	}
	if len(r.BestTraders) > 0 {
		mean := lo.SumBy(r.BestTraders, func(t Trader) float64 { return t.Efficiency }) / float64(len(r.BestTraders))
		if mean < 50 {
			recs = append(recs, "Look for attackers that deal more damage for each prize they give up")
		}
		if len(r.Scenarios) == 0 {
			recs = append(recs, "No attacker can knock out a meta threat within three turns; add more damage")
		}
	}

	poor := lo.CountBy(r.Scenarios, func(s TradeScenario) bool {
		return s.Evaluation == EvaluationUnfavorable || s.Evaluation == EvaluationTerrible
	})
	if poor > len(r.Scenarios)/2 {
		recs = append(recs, "Most matchups trade poorly; add an attacker that one-shots the common threats")
	}

	if len(recs) == 0 {
		recs = append(recs, "The prize trade is in good shape; keep the current attacker mix")
	}
	return recs
}
