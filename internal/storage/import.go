package storage

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage/repository"
)

// flexInt accepts both 120 and "120". Anything else decodes to 0.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// rawCard mirrors the pokemontcg.io card shape with a flat price list.
type rawCard struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Supertype   string         `json:"supertype"`
	Subtypes    []string       `json:"subtypes"`
	Types       []string       `json:"types"`
	HP          flexInt        `json:"hp"`
	EvolvesFrom string         `json:"evolvesFrom"`
	Attacks     []cards.Attack `json:"attacks"`
	RetreatCost []string       `json:"retreatCost"`
	Number      string         `json:"number"`
	SetID       string         `json:"setId"`
	Set         *struct {
		ID string `json:"id"`
	} `json:"set"`
	Prices []cards.Price `json:"prices"`
}

func (r rawCard) toCard() cards.Card {
	c := cards.Card{
		ID:          r.ID,
		Name:        strings.TrimSpace(r.Name),
		Supertype:   cards.ParseSupertype(r.Supertype),
		Subtypes:    r.Subtypes,
		Types:       r.Types,
		Attacks:     r.Attacks,
		HP:          int(r.HP),
		EvolvesFrom: r.EvolvesFrom,
		RetreatCost: r.RetreatCost,
		Prices:      r.Prices,
		SetID:       r.SetID,
		Number:      r.Number,
	}
	if c.SetID == "" && r.Set != nil {
		c.SetID = r.Set.ID
	}
	return c
}

// ImportCardsJSON reads a JSON array of cards, or an object with a "data"
// array, and upserts them in one transaction. It returns the number of
// cards stored.
func (s *Service) ImportCardsJSON(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read card import: %w", err)
	}

	raw, err := decodeRawCards(data)
	if err != nil {
		return 0, err
	}

	err = s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		repo := repository.NewCardRepository(tx)
		for i, rc := range raw {
			if rc.ID == "" || rc.Name == "" {
				return fmt.Errorf("card %d: id and name are required", i)
			}
			if err := repo.Upsert(ctx, rc.toCard()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("import cards: %w", err)
	}
	return len(raw), nil
}

func decodeRawCards(data []byte) ([]rawCard, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decode card import: empty input")
	}

	var raw []rawCard
	if trimmed[0] == '{' {
		var envelope struct {
			Data []rawCard `json:"data"`
		}
		if err := sonic.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode card import: %w", err)
		}
		raw = envelope.Data
	} else if err := sonic.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode card import: %w", err)
	}
	return raw, nil
}
