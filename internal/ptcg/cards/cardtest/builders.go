// Package cardtest provides card builders shared by analyzer tests.
package cardtest

import (
	"strings"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
)

// Pokemon builds a Pokémon card. Subtypes default to Basic.
func Pokemon(name string, hp int, subtypes ...string) cards.Card {
	if len(subtypes) == 0 {
		subtypes = []string{cards.SubtypeBasic}
	}
	return cards.Card{
		ID:        id(name),
		Name:      name,
		Supertype: cards.SupertypePokemon,
		Subtypes:  subtypes,
		HP:        hp,
	}
}

// WithAttack returns a copy of c with an extra attack.
func WithAttack(c cards.Card, damage string, cost ...string) cards.Card {
	attacks := make([]cards.Attack, len(c.Attacks), len(c.Attacks)+1)
	copy(attacks, c.Attacks)
	c.Attacks = append(attacks, cards.Attack{
		Name:   "Attack " + damage,
		Cost:   cost,
		Damage: damage,
	})
	return c
}

// WithPrice returns a copy of c with a current USD price.
func WithPrice(c cards.Card, usd float64) cards.Card {
	c.Prices = []cards.Price{{Currency: "USD", Price: usd, IsCurrent: true}}
	return c
}

// WithID returns a copy of c with the given ID.
func WithID(c cards.Card, cardID string) cards.Card {
	c.ID = cardID
	return c
}

// Trainer builds a Trainer card.
func Trainer(name string, subtypes ...string) cards.Card {
	return cards.Card{
		ID:        id(name),
		Name:      name,
		Supertype: cards.SupertypeTrainer,
		Subtypes:  subtypes,
	}
}

// BasicEnergy builds a basic energy of the given element, e.g. "Fire".
func BasicEnergy(element string) cards.Card {
	return cards.Card{
		ID:        id("basic " + element + " energy"),
		Name:      "Basic " + element + " Energy",
		Supertype: cards.SupertypeEnergy,
		Subtypes:  []string{cards.SubtypeBasic},
	}
}

// SpecialEnergy builds a special energy card.
func SpecialEnergy(name string) cards.Card {
	return cards.Card{
		ID:        id(name),
		Name:      name,
		Supertype: cards.SupertypeEnergy,
		Subtypes:  []string{"Special"},
	}
}

// Entry pairs a card with a quantity.
func Entry(c cards.Card, quantity int) cards.DeckEntry {
	return cards.DeckEntry{Card: c, Quantity: quantity}
}

func id(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
