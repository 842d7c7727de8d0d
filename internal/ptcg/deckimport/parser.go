package deckimport

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
)

// ErrEmptyList is returned when the input holds no card lines.
var ErrEmptyList = errors.New("empty deck list")

var (
	// "4 Charizard ex OBF 125", "4x Iono", "2 Boss's Orders PAL 172"
	// Group 1: quantity, Group 2: name, Group 3: set code, Group 4: collector number
	lineRegex = regexp.MustCompile(`^(\d+)x?\s+(.+?)(?:\s+([A-Z][A-Z0-9-]{1,7})\s+([A-Za-z0-9-]+))?$`)

	// "Pokémon: 12", "Trainer: 36", "Total Cards: 60"
	headerRegex = regexp.MustCompile(`(?i)^(pok[eé]mon|trainer|energy|total cards)\s*[:：]?\s*\d*$`)
)

// Line is one parsed card line of a deck list.
type Line struct {
	LineNumber      int             `json:"lineNumber"`
	Quantity        int             `json:"quantity"`
	Name            string          `json:"name"`
	SetCode         string          `json:"setCode,omitempty"`
	CollectorNumber string          `json:"collectorNumber,omitempty"`
	Section         cards.Supertype `json:"section,omitempty"`
}

// ParsedList is the syntactic result of parsing a deck list.
type ParsedList struct {
	Lines    []Line   `json:"lines"`
	Warnings []string `json:"warnings"`
}

// Parse reads a PTCG Live style export. Section headers are skipped and set
// the section of the lines that follow; unparseable lines become warnings.
func Parse(input string) (*ParsedList, error) {
	result := &ParsedList{
		Lines:    make([]Line, 0),
		Warnings: make([]string, 0),
	}

	var section cards.Supertype
	for i, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if m := headerRegex.FindStringSubmatch(line); m != nil {
			section = sectionFor(m[1])
			continue
		}

		matches := lineRegex.FindStringSubmatch(line)
		if matches == nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Line %d: Could not parse '%s'", i+1, line))
			continue
		}

		quantity, err := strconv.Atoi(matches[1])
		if err != nil || quantity <= 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Line %d: Invalid quantity '%s'", i+1, matches[1]))
			continue
		}

		result.Lines = append(result.Lines, Line{
			LineNumber:      i + 1,
			Quantity:        quantity,
			Name:            strings.TrimSpace(matches[2]),
			SetCode:         matches[3],
			CollectorNumber: matches[4],
			Section:         section,
		})
	}

	if len(result.Lines) == 0 {
		return result, ErrEmptyList
	}
	return result, nil
}

func sectionFor(header string) cards.Supertype {
	switch strings.ToLower(header) {
	case "trainer":
		return cards.SupertypeTrainer
	case "energy":
		return cards.SupertypeEnergy
	case "total cards":
		return ""
	}
	return cards.SupertypePokemon
}

// CardResolver looks up card printings by exact name.
type CardResolver interface {
	FindByName(ctx context.Context, name string) ([]cards.Card, error)
}

// Result is a parsed deck list with its lines resolved to cards.
type Result struct {
	Lines      []Line            `json:"lines"`
	Entries    []cards.DeckEntry `json:"entries"`
	Warnings   []string          `json:"warnings"`
	Unresolved []string          `json:"unresolved"`
}

// Importer turns deck list text into deck entries.
type Importer struct {
	resolver CardResolver
	logger   *zap.Logger
}

// NewImporter creates an importer. A nil resolver yields name-only cards
// whose supertype comes from the list's section headers.
func NewImporter(resolver CardResolver, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{resolver: resolver, logger: logger}
}

// Import parses input and resolves every line. Lines naming unknown cards
// are reported in Unresolved and left out of Entries.
func (im *Importer) Import(ctx context.Context, input string) (*Result, error) {
	parsed, err := Parse(input)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Lines:      parsed.Lines,
		Entries:    make([]cards.DeckEntry, 0, len(parsed.Lines)),
		Warnings:   parsed.Warnings,
		Unresolved: make([]string, 0),
	}
	index := make(map[string]int)

	for _, line := range parsed.Lines {
		card, ok, err := im.resolve(ctx, line)
		if err != nil {
			return nil, fmt.Errorf("resolve line %d: %w", line.LineNumber, err)
		}
		if !ok {
			im.logger.Debug("card not found", zap.String("name", line.Name), zap.Int("line", line.LineNumber))
			result.Unresolved = append(result.Unresolved, line.Name)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Card '%s' not found in database", line.Name))
			continue
		}

		key := card.ID
		if key == "" {
			key = "name:" + strings.ToLower(card.Name)
		}
		if i, seen := index[key]; seen {
			result.Entries[i].Quantity += line.Quantity
			continue
		}
		index[key] = len(result.Entries)
		result.Entries = append(result.Entries, cards.DeckEntry{Card: card, Quantity: line.Quantity})
	}

	return result, nil
}

func (im *Importer) resolve(ctx context.Context, line Line) (cards.Card, bool, error) {
	if im.resolver == nil {
		return cards.Card{Name: line.Name, Supertype: line.Section}, true, nil
	}

	candidates, err := im.resolver.FindByName(ctx, line.Name)
	if err != nil {
		return cards.Card{}, false, err
	}
	// PTCG Live prefixes basic energy with "Basic ".
	if len(candidates) == 0 && strings.HasPrefix(line.Name, "Basic ") {
		candidates, err = im.resolver.FindByName(ctx, strings.TrimPrefix(line.Name, "Basic "))
		if err != nil {
			return cards.Card{}, false, err
		}
	}
	if len(candidates) == 0 {
		return cards.Card{}, false, nil
	}
	return pickPrinting(candidates, line), true, nil
}

// pickPrinting prefers the exact set and number, then the number alone,
// then the first (cheapest) candidate.
func pickPrinting(candidates []cards.Card, line Line) cards.Card {
	if line.CollectorNumber != "" {
		for _, c := range candidates {
			if c.Number == line.CollectorNumber && strings.EqualFold(c.SetID, line.SetCode) {
				return c
			}
		}
		for _, c := range candidates {
			if c.Number == line.CollectorNumber {
				return c
			}
		}
	}
	return candidates[0]
}
