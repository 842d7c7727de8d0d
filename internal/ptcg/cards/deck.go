package cards

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// MaxCopies is the copy limit for every card except basic Energy.
const MaxCopies = 4

// StandardDeckSize is the number of cards in a legal deck.
const StandardDeckSize = 60

// DeckEntry is a card and the number of copies in the deck.
type DeckEntry struct {
	Card     Card `json:"card"`
	Quantity int  `json:"quantity"`
}

// Validate checks the quantity invariants of a single entry.
func (e DeckEntry) Validate() error {
	if e.Quantity <= 0 {
		return fmt.Errorf("%s: quantity must be positive, got %d", e.Card.Name, e.Quantity)
	}
	if e.Quantity > MaxCopies && !e.Card.IsBasicEnergy() {
		return fmt.Errorf("%s: at most %d copies allowed, got %d", e.Card.Name, MaxCopies, e.Quantity)
	}
	return nil
}

// ValidateEntries validates every entry and returns the first failure.
func ValidateEntries(entries []DeckEntry) error {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

// TotalCards sums quantities across entries.
func TotalCards(entries []DeckEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	return total
}

// CountBySupertype sums quantities of entries with the given supertype.
func CountBySupertype(entries []DeckEntry, st Supertype) int {
	total := 0
	for _, e := range entries {
		if e.Card.Supertype == st {
			total += e.Quantity
		}
	}
	return total
}

// CountNamed sums quantities of entries whose name matches exactly (case-insensitive).
func CountNamed(entries []DeckEntry, name string) int {
	total := 0
	for _, e := range entries {
		if strings.EqualFold(e.Card.Name, name) {
			total += e.Quantity
		}
	}
	return total
}

// Pokemon returns the Pokémon entries in deck order.
func Pokemon(entries []DeckEntry) []DeckEntry {
	out := make([]DeckEntry, 0, len(entries))
	for _, e := range entries {
		if e.Card.IsPokemon() {
			out = append(out, e)
		}
	}
	return out
}

// BasicPokemonCount sums quantities of Basic Pokémon, the cards that
// prevent a mulligan.
func BasicPokemonCount(entries []DeckEntry) int {
	total := 0
	for _, e := range entries {
		if e.Card.IsPokemon() && e.Card.HasSubtypeFold(SubtypeBasic) {
			total += e.Quantity
		}
	}
	return total
}

// TotalValue returns Σ(unit USD price × quantity).
func TotalValue(entries []DeckEntry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Card.UnitPrice() * float64(e.Quantity)
	}
	return total
}

// Fingerprint identifies a deck list independent of entry order. Entries
// are keyed by card ID, falling back to the name for unidentified cards.
func Fingerprint(entries []DeckEntry) string {
	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		key := e.Card.ID
		if key == "" {
			key = "name:" + strings.ToLower(e.Card.Name)
		}
		counts[key] += e.Quantity
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%d\n", k, counts[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}
