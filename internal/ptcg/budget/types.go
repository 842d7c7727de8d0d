package budget

import (
	"context"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/coherence"
)

// PriorityMode steers which cards the optimizer protects and visits first.
type PriorityMode string

const (
	PriorityPower       PriorityMode = "power"
	PriorityConsistency PriorityMode = "consistency"
	PrioritySpeed       PriorityMode = "speed"
)

// ParsePriorityMode maps a user-supplied string to a mode, defaulting to power.
func ParsePriorityMode(s string) PriorityMode {
	switch PriorityMode(s) {
	case PriorityConsistency:
		return PriorityConsistency
	case PrioritySpeed:
		return PrioritySpeed
	}
	return PriorityPower
}

// Action is the kind of edit a DeckChange applies.
type Action string

const (
	ActionReplace Action = "replace"
	ActionRemove  Action = "remove"
	ActionAdd     Action = "add"
	ActionAdjust  Action = "adjust"
)

// Alternative is a cheaper candidate for a card.
type Alternative struct {
	Card       cards.Card `json:"card"`
	Price      float64    `json:"price"`
	Similarity float64    `json:"similarity"` // 0-1
}

// AlternativeFinder looks up cheaper substitutes for a card, at most limit
// results priced at or below maxPrice.
type AlternativeFinder interface {
	FindAlternatives(ctx context.Context, card cards.Card, maxPrice float64, limit int) ([]Alternative, error)
}

// FinderFunc adapts a function to AlternativeFinder.
type FinderFunc func(ctx context.Context, card cards.Card, maxPrice float64, limit int) ([]Alternative, error)

// FindAlternatives calls f.
func (f FinderFunc) FindAlternatives(ctx context.Context, card cards.Card, maxPrice float64, limit int) ([]Alternative, error) {
	return f(ctx, card, maxPrice, limit)
}

// DeckChange is one edit made to the deck.
type DeckChange struct {
	Action   Action      `json:"action"`
	OldCard  *cards.Card `json:"oldCard,omitempty"`
	NewCard  *cards.Card `json:"newCard,omitempty"`
	OldName  string      `json:"oldName,omitempty"`
	NewName  string      `json:"newName,omitempty"`
	Quantity int         `json:"quantity"`
	Reason   string      `json:"reason"`
	Savings  float64     `json:"savings"`
}

// Tradeoffs describes what the optimized deck kept and gave up.
type Tradeoffs struct {
	Maintained  []string `json:"maintained"`
	Compromised []string `json:"compromised"`
	Lost        []string `json:"lost"`
}

// Request is the input to Optimize.
type Request struct {
	Entries      []cards.DeckEntry `json:"entries"`
	Budget       float64           `json:"budget"`
	PriorityMode PriorityMode      `json:"priorityMode"`
	OwnedCardIDs []string          `json:"ownedCardIds"`
	MaxChanges   int               `json:"maxChanges"`
	// PriorReport is only used to phrase trade-offs.
	PriorReport *coherence.Report `json:"priorReport,omitempty"`
}

// Report is the result of a budget optimization.
type Report struct {
	OptimizedDeck  []cards.DeckEntry `json:"optimizedDeck"`
	OriginalCost   float64           `json:"originalCost"`
	TotalCost      float64           `json:"totalCost"`
	Changes        []DeckChange      `json:"changes"`
	Warnings       []string          `json:"warnings"`
	Tradeoffs      Tradeoffs         `json:"tradeoffs"`
	Recommendation string            `json:"recommendation"`
}
