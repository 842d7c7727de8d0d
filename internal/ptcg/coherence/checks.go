package coherence

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/catalog"
)

const (
	maxBasicEnergyTypes   = 2
	minMultiPrizers       = 4
	maxSinglePrizersMixed = 6
	minBasicOnlyAttackers = 4
	fullRareCandyCount    = 4
)

func (v *Validator) checkEnergyTypes(d *deckView) []Issue {
	var issues []Issue

	hasRainbow := lo.ContainsBy(d.specialEnergy, func(c cards.Card) bool {
		return catalog.HasMarker(c.Name, v.catalog.RainbowMarkers)
	})
	if len(d.basicTypes) > maxBasicEnergyTypes && !hasRainbow {
		issues = append(issues, Issue{
			Severity: SeverityMajor,
			Category: CategoryEnergy,
			Title:    "Too many energy types",
			Description: fmt.Sprintf("The deck runs %d basic Energy types (%s) without any Energy that provides every type.",
				len(d.basicTypes), strings.Join(d.basicTypes, ", ")),
			Impact: "Opening hands will often hold the wrong Energy for the attacker in play.",
			Suggestions: []string{
				"Cut down to one or two basic Energy types",
				"Build around attackers that share an Energy type",
			},
		})
	}

	for _, element := range d.basicTypes {
		if d.attackTypes[lower(element)] {
			continue
		}
		issues = append(issues, Issue{
			Severity:    SeverityCritical,
			Category:    CategoryEnergy,
			Title:       fmt.Sprintf("Unused energy type: %s", element),
			Description: fmt.Sprintf("No Pokémon in the deck has an attack that costs %s Energy.", element),
			Impact:      "Every copy of this Energy is a dead draw.",
			Suggestions: []string{
				fmt.Sprintf("Remove the basic %s Energy", element),
				fmt.Sprintf("Add an attacker that uses %s Energy", element),
			},
		})
	}
	return issues
}

func (v *Validator) checkStrategy(d *deckView) []Issue {
	var issues []Issue

	multi, single := 0, 0
	for _, p := range d.pokemon {
		if p.Card.IsMultiPrizeMarked() {
			multi += p.Quantity
		}
		if cards.PrizeValue(p.Card) == 1 {
			single += p.Quantity
		}
	}
	if multi > 0 && multi < minMultiPrizers && single > maxSinglePrizersMixed {
		issues = append(issues, Issue{
			Severity: SeverityMajor,
			Category: CategoryStrategy,
			Title:    "Mixed prize strategy",
			Description: fmt.Sprintf("The deck splits between %d multi-prize and %d single-prize Pokémon.",
				multi, single),
			Impact: "Too few big attackers to carry the game and too many rule-box liabilities for a single-prize plan.",
			Suggestions: []string{
				"Commit to at least 4 multi-prize attackers or cut them entirely",
				"Lean into single-prize attackers to win the prize trade",
			},
		})
	}

	hasStage2 := lo.ContainsBy(d.pokemon, func(e cards.DeckEntry) bool {
		return e.Card.Stage() == cards.SubtypeStage2
	})
	if hasStage2 {
		basicOnly := v.basicOnlyAttackers(d)
		if basicOnly >= minBasicOnlyAttackers && d.rareCandy < fullRareCandyCount {
			issues = append(issues, Issue{
				Severity: SeverityMajor,
				Category: CategoryStrategy,
				Title:    "Conflicting setup requirements",
				Description: fmt.Sprintf("A Stage 2 line competes with %d Basic attackers for early turns, with only %d Rare Candy.",
					basicOnly, d.rareCandy),
				Impact: "Turns spent evolving are not spent attacking, and vice versa.",
				Suggestions: []string{
					"Run 4 Rare Candy to accelerate the Stage 2 line",
					"Trim Basic attackers so the deck has one clear setup plan",
				},
			})
		}
	}
	return issues
}

// basicOnlyAttackers counts copies of attacking Basic Pokémon that nothing
// in the deck evolves from.
func (v *Validator) basicOnlyAttackers(d *deckView) int {
	evolvedLines := make(map[string]bool)
	for _, p := range d.pokemon {
		if isEvolved(p.Card) {
			evolvedLines[v.catalog.BasicForm(p.Card.Name)] = true
		}
	}

	count := 0
	for _, p := range d.pokemon {
		if p.Card.Stage() != cards.SubtypeBasic || p.Card.MaxDamage() == 0 {
			continue
		}
		if !evolvedLines[v.catalog.BasicForm(p.Card.Name)] {
			count += p.Quantity
		}
	}
	return count
}

func isEvolved(c cards.Card) bool {
	switch c.Stage() {
	case cards.SubtypeStage1, cards.SubtypeStage2:
		return true
	}
	return c.HasSubtype(cards.SubtypeVMAX) || c.HasSubtype(cards.SubtypeVSTAR) || c.EvolvesFrom != ""
}

func (v *Validator) checkFormat(d *deckView) []Issue {
	var illegal, rotated []string
	for _, e := range d.entries {
		matches := v.catalog.RotatedMatches(e.Card.Name, e.Card.SetID)
		if len(matches) == 0 {
			continue
		}
		illegal = append(illegal, e.Card.Name)
		rotated = append(rotated, matches...)
	}
	if len(illegal) == 0 {
		return nil
	}
	illegal = lo.Uniq(illegal)
	rotated = lo.Uniq(rotated)

	suggestions := make([]string, 0, len(rotated)+1)
	for _, r := range rotated {
		if s := v.catalog.ReplacementFor(r); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	suggestions = append(suggestions, "Check the current Standard rotation before registering this list")

	return []Issue{{
		Severity:    SeverityCritical,
		Category:    CategoryFormat,
		Title:       "Cards not legal in Standard",
		Description: fmt.Sprintf("These cards have rotated out of Standard: %s.", strings.Join(illegal, ", ")),
		Impact:      "The deck cannot be registered for Standard events.",
		Suggestions: suggestions,
	}}
}

// lineCounts tallies copies per evolution stage of one line.
type lineCounts struct {
	name   string
	basic  int
	stage1 int
	stage2 int
}

func (v *Validator) checkEvolutionLines(d *deckView) []Issue {
	var order []string
	lines := make(map[string]*lineCounts)

	for _, p := range d.pokemon {
		key := v.catalog.BasicForm(p.Card.Name)
		line, ok := lines[key]
		if !ok {
			line = &lineCounts{name: titleCase(key)}
			lines[key] = line
			order = append(order, key)
		}
		switch p.Card.Stage() {
		case cards.SubtypeBasic:
			line.basic += p.Quantity
		case cards.SubtypeStage1:
			line.stage1 += p.Quantity
		case cards.SubtypeStage2:
			line.stage2 += p.Quantity
		}
	}

	var issues []Issue
	for _, key := range order {
		line := lines[key]

		switch {
		case line.stage2 > 0 && line.basic == 0:
			issues = append(issues, Issue{
				Severity:    SeverityCritical,
				Category:    CategorySynergy,
				Title:       fmt.Sprintf("No Basic Pokémon for the %s line", line.name),
				Description: fmt.Sprintf("The deck runs %d Stage 2 %s-line Pokémon but no Basic to evolve from.", line.stage2, line.name),
				Impact:      "The Stage 2 Pokémon can never be played.",
				Suggestions: []string{fmt.Sprintf("Add 3-4 copies of %s", line.name)},
			})
		case line.stage2 > 0 && line.stage1 == 0 && d.rareCandy == 0:
			issues = append(issues, Issue{
				Severity:    SeverityCritical,
				Category:    CategorySynergy,
				Title:       fmt.Sprintf("Missing Stage 1 for the %s line", line.name),
				Description: fmt.Sprintf("The %s line has no Stage 1 Pokémon and the deck has no %s.", line.name, v.catalog.RareCandy),
				Impact:      "The Stage 2 Pokémon cannot be reached.",
				Suggestions: []string{
					fmt.Sprintf("Add 4 %s", v.catalog.RareCandy),
					"Add the Stage 1 of this line",
				},
			})
		}

		if line.stage1 > 0 && line.basic == 0 {
			issues = append(issues, Issue{
				Severity:    SeverityCritical,
				Category:    CategorySynergy,
				Title:       fmt.Sprintf("Stage 1 without Basic in the %s line", line.name),
				Description: fmt.Sprintf("The deck runs %d Stage 1 %s-line Pokémon but no Basic to evolve from.", line.stage1, line.name),
				Impact:      "The Stage 1 Pokémon can never be played.",
				Suggestions: []string{fmt.Sprintf("Add 3-4 copies of %s", line.name)},
			})
		}
	}
	return issues
}

func (v *Validator) checkAttackCosts(d *deckView) []Issue {
	available := make(map[string]bool, len(d.basicTypes)+1)
	for _, t := range d.basicTypes {
		available[lower(t)] = true
	}
	if lo.ContainsBy(d.specialEnergy, func(c cards.Card) bool {
		return catalog.HasMarker(c.Name, v.catalog.ColorlessMarkers)
	}) {
		available[lower(cards.TypeColorless)] = true
	}

	var unplayable []string
	for _, p := range d.pokemon {
		if !canAttack(p.Card, available) {
			unplayable = append(unplayable, p.Card.Name)
		}
	}
	if len(unplayable) == 0 {
		return nil
	}
	unplayable = lo.Uniq(unplayable)

	return []Issue{{
		Severity:    SeverityCritical,
		Category:    CategoryTyping,
		Title:       "Pokémon cannot attack",
		Description: fmt.Sprintf("No attack of these Pokémon can be paid with the deck's Energy: %s.", strings.Join(unplayable, ", ")),
		Impact:      "These Pokémon can only retreat or use abilities.",
		Suggestions: []string{
			"Add basic Energy matching their attack costs",
			"Replace them with attackers that fit the deck's Energy",
		},
	}}
}

// canAttack reports whether some attack of c can be paid. A Pokémon without
// attacks cannot attack.
func canAttack(c cards.Card, available map[string]bool) bool {
	for _, attack := range c.Attacks {
		payable := true
		for _, token := range attack.Cost {
			if !isColorless(token) && !available[lower(token)] {
				payable = false
				break
			}
		}
		if payable {
			return true
		}
	}
	return false
}

func isColorless(token string) bool {
	return strings.EqualFold(token, cards.TypeColorless)
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
