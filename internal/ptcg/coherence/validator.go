// Package coherence validates that a deck's parts work together: energy
// types, prize strategy, format legality, evolution lines and attack costs.
package coherence

import (
	"github.com/samber/lo"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/catalog"
)

// check is one independent rule evaluation over a deck snapshot.
type check func(d *deckView) []Issue

// Validator runs the coherence checks. It holds no mutable state and is
// safe for concurrent use.
type Validator struct {
	catalog *catalog.Catalog
	checks  []check
}

// NewValidator creates a validator backed by the given lookup tables.
// A nil catalog uses the built-in defaults.
func NewValidator(c *catalog.Catalog) *Validator {
	if c == nil {
		c = catalog.Default()
	}
	v := &Validator{catalog: c}
	v.checks = []check{
		v.checkEnergyTypes,
		v.checkStrategy,
		v.checkFormat,
		v.checkEvolutionLines,
		v.checkAttackCosts,
	}
	return v
}

// Validate runs every check and aggregates the results. It never fails;
// an empty deck scores 100 with no strategy.
func (v *Validator) Validate(entries []cards.DeckEntry) Report {
	d := newDeckView(entries, v.catalog)

	issues := make([]Issue, 0)
	for _, run := range v.checks {
		issues = append(issues, run(d)...)
	}

	critical := lo.CountBy(issues, func(i Issue) bool { return i.Severity == SeverityCritical })
	major := lo.CountBy(issues, func(i Issue) bool { return i.Severity == SeverityMajor })

	return Report{
		IsCoherent:      critical == 0 && major <= 1,
		CoherenceScore:  Score(issues),
		PrimaryStrategy: v.primaryStrategy(d),
		Issues:          issues,
		Recommendations: recommendations(issues),
	}
}

// deckView caches the derived facts several checks share.
type deckView struct {
	entries []cards.DeckEntry
	pokemon []cards.DeckEntry

	// basicTypes are the element names of basic energy in deck order.
	basicTypes []string
	// attackTypes are lower-case non-colorless cost tokens used by Pokémon.
	attackTypes map[string]bool

	specialEnergy []cards.Card
	rareCandy     int
}

func newDeckView(entries []cards.DeckEntry, c *catalog.Catalog) *deckView {
	d := &deckView{
		entries:     entries,
		pokemon:     cards.Pokemon(entries),
		attackTypes: make(map[string]bool),
		rareCandy:   cards.CountNamed(entries, c.RareCandy),
	}

	for _, e := range entries {
		switch {
		case e.Card.IsBasicEnergy():
			if element := e.Card.EnergyElement(); element != "" && !lo.Contains(d.basicTypes, element) {
				d.basicTypes = append(d.basicTypes, element)
			}
		case e.Card.IsSpecialEnergy():
			d.specialEnergy = append(d.specialEnergy, e.Card)
		}
	}

	for _, p := range d.pokemon {
		for _, attack := range p.Card.Attacks {
			for _, token := range attack.Cost {
				if !isColorless(token) {
					d.attackTypes[lower(token)] = true
				}
			}
		}
	}
	return d
}
