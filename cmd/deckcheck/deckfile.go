package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/deckservice"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
)

// readDeck loads a deck from path, or stdin when path is "-". Text lists
// are resolved through svc; warnings go to warn.
func readDeck(ctx context.Context, svc *deckservice.Service, path string, stdin io.Reader, warn io.Writer) ([]cards.DeckEntry, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("deck file is empty")
	}
	if trimmed[0] == '[' || trimmed[0] == '{' {
		return decodeDeckJSON(trimmed)
	}

	result, err := svc.Parse(ctx, string(data))
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(warn, "warning:", w)
	}
	if len(result.Entries) == 0 {
		return nil, fmt.Errorf("no cards resolved (unresolved: %s)", strings.Join(result.Unresolved, ", "))
	}
	return result.Entries, nil
}

func decodeDeckJSON(data []byte) ([]cards.DeckEntry, error) {
	if data[0] == '[' {
		var entries []cards.DeckEntry
		if err := sonic.ConfigStd.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decode deck: %w", err)
		}
		return entries, nil
	}

	var doc struct {
		Entries []cards.DeckEntry `json:"entries"`
	}
	if err := sonic.ConfigStd.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	if doc.Entries == nil {
		return nil, errors.New(`deck object has no "entries" field`)
	}
	return doc.Entries, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := sonic.ConfigStd.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
