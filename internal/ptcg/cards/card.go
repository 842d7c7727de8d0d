package cards

import (
	"strconv"
	"strings"
	"unicode"
)

// Supertype is the top-level card category.
type Supertype string

const (
	SupertypePokemon Supertype = "POKEMON"
	SupertypeTrainer Supertype = "TRAINER"
	SupertypeEnergy  Supertype = "ENERGY"
)

// ParseSupertype normalizes the spellings used by card data sources
// ("Pokémon", "pokemon", "Trainer", ...) to a Supertype.
// Unknown values are returned upper-cased.
func ParseSupertype(s string) Supertype {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "É", "E")
	switch v {
	case "POKEMON":
		return SupertypePokemon
	case "TRAINER":
		return SupertypeTrainer
	case "ENERGY":
		return SupertypeEnergy
	}
	return Supertype(v)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Supertype) UnmarshalText(text []byte) error {
	*s = ParseSupertype(string(text))
	return nil
}

// Common subtype tags.
const (
	SubtypeBasic  = "Basic"
	SubtypeStage1 = "Stage 1"
	SubtypeStage2 = "Stage 2"
	SubtypeV      = "V"
	SubtypeVMAX   = "VMAX"
	SubtypeVSTAR  = "VSTAR"
	SubtypeEx     = "ex"
	SubtypeEX     = "EX"
	SubtypeGX     = "GX"
	SubtypeBREAK  = "BREAK"
)

// TypeColorless is the attack cost token any energy can pay.
const TypeColorless = "Colorless"

// ElementTypes are the canonical basic energy types.
var ElementTypes = []string{
	"Grass",
	"Fire",
	"Water",
	"Lightning",
	"Psychic",
	"Fighting",
	"Darkness",
	"Metal",
}

// Attack is a single attack printed on a Pokémon card.
type Attack struct {
	Name   string   `json:"name" toml:"name" yaml:"name"`
	Cost   []string `json:"cost" toml:"cost" yaml:"cost"`
	Damage string   `json:"damage" toml:"damage" yaml:"damage"` // e.g. "120", "30+", "50×", or empty
	Text   string   `json:"text,omitempty" toml:"text" yaml:"text"`
}

// DamageValue returns the numeric part of the printed damage, 0 when absent.
func (a Attack) DamageValue() int {
	end := 0
	for end < len(a.Damage) && a.Damage[end] >= '0' && a.Damage[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(a.Damage[:end])
	if err != nil {
		return 0
	}
	return n
}

// Price is a market price observation for a card.
type Price struct {
	Currency  string  `json:"currency"`
	Price     float64 `json:"price"`
	IsCurrent bool    `json:"isCurrent"`
}

// Card represents the data needed to analyze a Pokémon TCG card.
// All fields are value types; absent data is the zero value.
type Card struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Supertype   Supertype `json:"supertype"`
	Subtypes    []string  `json:"subtypes"`
	Types       []string  `json:"types"`
	Attacks     []Attack  `json:"attacks"`
	HP          int       `json:"hp"`
	EvolvesFrom string    `json:"evolvesFrom,omitempty"`
	RetreatCost []string  `json:"retreatCost"`
	Prices      []Price   `json:"prices"`

	// Printing information
	SetID  string `json:"setId,omitempty"`
	Number string `json:"number,omitempty"`
}

// IsPokemon reports whether the card is a Pokémon.
func (c Card) IsPokemon() bool { return c.Supertype == SupertypePokemon }

// IsTrainer reports whether the card is a Trainer.
func (c Card) IsTrainer() bool { return c.Supertype == SupertypeTrainer }

// IsEnergy reports whether the card is an Energy.
func (c Card) IsEnergy() bool { return c.Supertype == SupertypeEnergy }

// HasSubtype reports whether the card carries the exact subtype tag.
func (c Card) HasSubtype(subtype string) bool {
	for _, s := range c.Subtypes {
		if s == subtype {
			return true
		}
	}
	return false
}

// HasSubtypeFold is HasSubtype with case-insensitive matching.
func (c Card) HasSubtypeFold(subtype string) bool {
	for _, s := range c.Subtypes {
		if strings.EqualFold(s, subtype) {
			return true
		}
	}
	return false
}

// IsBasicEnergy reports whether the card is a basic Energy card.
func (c Card) IsBasicEnergy() bool {
	if !c.IsEnergy() {
		return false
	}
	if c.HasSubtypeFold(SubtypeBasic) {
		return true
	}
	lower := strings.ToLower(strings.TrimSpace(c.Name))
	lower = strings.TrimPrefix(lower, "basic ")
	for _, element := range ElementTypes {
		if lower == strings.ToLower(element)+" energy" {
			return true
		}
	}
	return false
}

// IsSpecialEnergy reports whether the card is a non-basic Energy card.
func (c Card) IsSpecialEnergy() bool {
	return c.IsEnergy() && !c.IsBasicEnergy()
}

// EnergyElement returns the canonical element named by an energy card,
// or "" when the name matches none.
func (c Card) EnergyElement() string {
	lower := strings.ToLower(c.Name)
	for _, element := range ElementTypes {
		if strings.Contains(lower, strings.ToLower(element)) {
			return element
		}
	}
	return ""
}

// Stage returns the evolution stage subtype, or "" for cards without one.
func (c Card) Stage() string {
	switch {
	case c.HasSubtypeFold(SubtypeStage2):
		return SubtypeStage2
	case c.HasSubtypeFold(SubtypeStage1):
		return SubtypeStage1
	case c.HasSubtypeFold(SubtypeBasic):
		return SubtypeBasic
	}
	return ""
}

// MaxDamage returns the highest printed damage across all attacks.
func (c Card) MaxDamage() int {
	best := 0
	for _, attack := range c.Attacks {
		if d := attack.DamageValue(); d > best {
			best = d
		}
	}
	return best
}

// CurrentPrice returns the current price in the given currency, 0 if none is recorded.
func (c Card) CurrentPrice(currency string) float64 {
	for _, p := range c.Prices {
		if p.IsCurrent && strings.EqualFold(p.Currency, currency) {
			return p.Price
		}
	}
	return 0
}

// UnitPrice returns the current USD price.
func (c Card) UnitPrice() float64 {
	return c.CurrentPrice("USD")
}

// IsMultiPrizeMarked reports whether the card carries one of the markers
// that identify a rule-box Pokémon in strategy checks (VMAX, VSTAR, ex).
func (c Card) IsMultiPrizeMarked() bool {
	return c.HasSubtype(SubtypeVMAX) || c.HasSubtype(SubtypeVSTAR) ||
		c.HasSubtype(SubtypeEx) || strings.Contains(c.Name, " ex")
}

// PrizeValue returns how many prize cards the opponent takes when this
// Pokémon is knocked out.
func PrizeValue(c Card) int {
	switch {
	case c.HasSubtype(SubtypeVMAX), c.HasSubtype(SubtypeVSTAR):
		return 3
	case c.HasSubtype(SubtypeV), c.HasSubtype(SubtypeEx), c.HasSubtype(SubtypeEX),
		c.HasSubtype(SubtypeGX), c.HasSubtype(SubtypeBREAK), strings.Contains(c.Name, " ex"):
		return 2
	case isPrismStar(c.Name):
		return 1
	}
	return 1
}

func isPrismStar(name string) bool {
	return strings.ContainsAny(name, "◇☆") || strings.Contains(strings.ToLower(name), "prism star")
}

// NameTokens splits a card name into lower-case alphanumeric words.
func NameTokens(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
