// Package catalog holds the curated lookup tables the deck analyzers run
// against: rotation lists, evolution chains, the synthetic meta roster and
// upgrade content. Tables are data, loaded from TOML or YAML, so they can be
// updated without touching the analyzers.
package catalog

import (
	"fmt"
	"strings"
)

// Catalog is an immutable set of lookup tables. Treat values obtained from
// a Store as read-only.
type Catalog struct {
	// Format legality
	RotatedCards       []string            `toml:"rotated_cards" yaml:"rotated_cards"`
	ReprintExceptions  []ReprintException  `toml:"reprint_exceptions" yaml:"reprint_exceptions"`
	FormatReplacements []FormatReplacement `toml:"format_replacements" yaml:"format_replacements"`

	// Energy markers (lower-case substrings of special energy names)
	RainbowMarkers   []string `toml:"rainbow_markers" yaml:"rainbow_markers"`
	ColorlessMarkers []string `toml:"colorless_markers" yaml:"colorless_markers"`

	// Evolution
	EvolutionChains   []EvolutionChain `toml:"evolution_chains" yaml:"evolution_chains"`
	EvolutionSuffixes []string         `toml:"evolution_suffixes" yaml:"evolution_suffixes"`
	RareCandy         string           `toml:"rare_candy" yaml:"rare_candy"`

	// Strategy labels, first match wins
	StrategyRules []StrategyRule `toml:"strategy_rules" yaml:"strategy_rules"`

	// Prize trade simulation
	OpponentRoster []Opponent `toml:"opponent_roster" yaml:"opponent_roster"`

	// Budget optimizer
	StapleTrainers []string      `toml:"staple_trainers" yaml:"staple_trainers"`
	UpgradeTiers   []UpgradeTier `toml:"upgrade_tiers" yaml:"upgrade_tiers"`
}

// ReprintException exempts a rotated card name when printed in a given set.
type ReprintException struct {
	Name  string `toml:"name" yaml:"name"`
	SetID string `toml:"set_id" yaml:"set_id"`
}

// FormatReplacement is the targeted suggestion for a rotated card.
type FormatReplacement struct {
	Card       string `toml:"card" yaml:"card"`
	Suggestion string `toml:"suggestion" yaml:"suggestion"`
}

// EvolutionChain names every member of one evolution line.
type EvolutionChain struct {
	Basic  string   `toml:"basic" yaml:"basic"`
	Stage1 []string `toml:"stage1" yaml:"stage1"`
	Stage2 []string `toml:"stage2" yaml:"stage2"`
}

// StrategyRule labels a deck when the lower-cased concatenation of its
// Pokémon names contains every All substring and, if Any is set, at least
// one Any substring.
type StrategyRule struct {
	All   []string `toml:"all" yaml:"all"`
	Any   []string `toml:"any" yaml:"any"`
	Label string   `toml:"label" yaml:"label"`
}

// Matches reports whether the rule applies to the concatenated names.
func (r StrategyRule) Matches(names string) bool {
	if len(r.All) == 0 && len(r.Any) == 0 {
		return false
	}
	for _, s := range r.All {
		if !strings.Contains(names, strings.ToLower(s)) {
			return false
		}
	}
	if len(r.Any) == 0 {
		return true
	}
	for _, s := range r.Any {
		if strings.Contains(names, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// Opponent is a synthetic meta threat used for trade scenarios.
type Opponent struct {
	Name   string `toml:"name" yaml:"name" json:"name"`
	Prizes int    `toml:"prizes" yaml:"prizes" json:"prizes"`
	HP     int    `toml:"hp" yaml:"hp" json:"hp"`
}

// UpgradeTier is one rung of the upgrade ladder.
type UpgradeTier struct {
	Name        string        `toml:"name" yaml:"name" json:"name"`
	Description string        `toml:"description" yaml:"description" json:"description"`
	Cards       []UpgradeCard `toml:"cards" yaml:"cards" json:"cards"`
}

// UpgradeCard is a card recommended by an upgrade tier.
type UpgradeCard struct {
	Name     string  `toml:"name" yaml:"name" json:"name"`
	Quantity int     `toml:"quantity" yaml:"quantity" json:"quantity"`
	Price    float64 `toml:"price" yaml:"price" json:"price"`
}

// Validate checks the tables for values the analyzers cannot use.
func (c *Catalog) Validate() error {
	for _, o := range c.OpponentRoster {
		if o.Name == "" {
			return fmt.Errorf("opponent roster: empty name")
		}
		if o.Prizes < 1 || o.Prizes > 3 {
			return fmt.Errorf("opponent %q: prizes must be 1-3, got %d", o.Name, o.Prizes)
		}
		if o.HP <= 0 {
			return fmt.Errorf("opponent %q: hp must be positive, got %d", o.Name, o.HP)
		}
	}
	for _, chain := range c.EvolutionChains {
		if chain.Basic == "" {
			return fmt.Errorf("evolution chain with no basic form")
		}
	}
	for _, rule := range c.StrategyRules {
		if rule.Label == "" {
			return fmt.Errorf("strategy rule with empty label")
		}
	}
	for _, tier := range c.UpgradeTiers {
		if tier.Name == "" {
			return fmt.Errorf("upgrade tier with empty name")
		}
		for _, card := range tier.Cards {
			if card.Quantity <= 0 || card.Price < 0 {
				return fmt.Errorf("upgrade tier %q: invalid entry for %q", tier.Name, card.Name)
			}
		}
	}
	return nil
}

// BasicForm resolves the basic Pokémon name (lower-case) that anchors the
// evolution line of the given card name. Curated chains are consulted
// first; otherwise rule-box suffixes are stripped.
func (c *Catalog) BasicForm(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	index := c.chainIndex()
	if basic, ok := index[lower]; ok {
		return basic
	}
	stripped := c.stripSuffix(lower)
	if basic, ok := index[stripped]; ok {
		return basic
	}
	return stripped
}

func (c *Catalog) stripSuffix(lower string) string {
	for _, suffix := range c.EvolutionSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(lower, suffix))
		}
	}
	return lower
}

func (c *Catalog) chainIndex() map[string]string {
	index := make(map[string]string)
	for _, chain := range c.EvolutionChains {
		basic := strings.ToLower(chain.Basic)
		index[basic] = basic
		for _, n := range chain.Stage1 {
			index[strings.ToLower(n)] = basic
		}
		for _, n := range chain.Stage2 {
			index[strings.ToLower(n)] = basic
		}
	}
	return index
}

// RotatedMatches returns the rotated names contained in cardName, unless
// the printing is covered by a reprint exception.
func (c *Catalog) RotatedMatches(cardName, setID string) []string {
	lower := strings.ToLower(cardName)
	for _, ex := range c.ReprintExceptions {
		if strings.EqualFold(ex.Name, cardName) && strings.EqualFold(ex.SetID, setID) {
			return nil
		}
	}
	var matches []string
	for _, rotated := range c.RotatedCards {
		if strings.Contains(lower, strings.ToLower(rotated)) {
			matches = append(matches, rotated)
		}
	}
	return matches
}

// ReplacementFor returns the targeted suggestion for a rotated card, or "".
func (c *Catalog) ReplacementFor(rotated string) string {
	for _, r := range c.FormatReplacements {
		if strings.EqualFold(r.Card, rotated) {
			return r.Suggestion
		}
	}
	return ""
}

// IsStapleTrainer reports whether name is on the staple Trainer whitelist.
func (c *Catalog) IsStapleTrainer(name string) bool {
	for _, s := range c.StapleTrainers {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// HasMarker reports whether the lower-cased name contains any marker.
func HasMarker(name string, markers []string) bool {
	lower := strings.ToLower(name)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
