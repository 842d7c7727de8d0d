// Package benchmarks compares the JSON encoders used for analysis payloads.
//
// To run:
//
//	go test -bench=. -benchmem ./benchmarks/...
package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/deckservice"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards/cardtest"
)

// benchDeck builds a 60-card list with a spread of Pokémon, Trainers and
// Energy so every report section is populated.
func benchDeck() []cards.DeckEntry {
	entries := make([]cards.DeckEntry, 0, 24)
	for i := range 6 {
		c := cardtest.Pokemon(fmt.Sprintf("Basic Attacker %d", i), 120, cards.SubtypeBasic)
		c.Types = []string{"Lightning"}
		entries = append(entries, cardtest.Entry(cardtest.WithPrice(cardtest.WithAttack(c, "90", "Lightning", "Colorless"), 1.5), 2))
	}
	for i := range 3 {
		c := cardtest.Pokemon(fmt.Sprintf("Big Hitter %d ex", i), 230, cards.SubtypeBasic, cards.SubtypeEx)
		c.Types = []string{"Lightning"}
		entries = append(entries, cardtest.Entry(cardtest.WithPrice(cardtest.WithAttack(c, "220", "Lightning", "Lightning", "Colorless"), 18), 2))
	}
	for _, name := range []string{"Professor's Research", "Iono", "Boss's Orders"} {
		entries = append(entries, cardtest.Entry(cardtest.WithPrice(cardtest.Trainer(name, "Supporter"), 0.5), 4))
	}
	for _, name := range []string{"Ultra Ball", "Nest Ball", "Switch"} {
		entries = append(entries, cardtest.Entry(cardtest.WithPrice(cardtest.Trainer(name, "Item"), 0.3), 4))
	}
	entries = append(entries, cardtest.Entry(cardtest.WithPrice(cardtest.BasicEnergy("Lightning"), 0.1), 18))
	return entries
}

func benchAnalysis(b *testing.B) *deckservice.Analysis {
	b.Helper()
	analysis, err := deckservice.New(deckservice.Dependencies{}).Analyze(context.Background(), benchDeck())
	if err != nil {
		b.Fatalf("analyze: %v", err)
	}
	return analysis
}

func BenchmarkMarshalAnalysis(b *testing.B) {
	analysis := benchAnalysis(b)

	b.Run("encoding/json", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			if _, err := json.Marshal(analysis); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("sonic", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			if _, err := sonic.Marshal(analysis); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("sonic/std", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			if _, err := sonic.ConfigStd.Marshal(analysis); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkUnmarshalDeck(b *testing.B) {
	data, err := json.Marshal(benchDeck())
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))

	b.Run("encoding/json", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			var entries []cards.DeckEntry
			if err := json.Unmarshal(data, &entries); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("sonic/std", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			var entries []cards.DeckEntry
			if err := sonic.ConfigStd.Unmarshal(data, &entries); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// TestEncodersAgree guards the benchmark: sonic's std config must produce
// the same document as encoding/json for the analysis payload.
func TestEncodersAgree(t *testing.T) {
	analysis, err := deckservice.New(deckservice.Dependencies{}).Analyze(context.Background(), benchDeck())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	std, err := json.Marshal(analysis)
	if err != nil {
		t.Fatal(err)
	}
	fast, err := sonic.ConfigStd.Marshal(analysis)
	if err != nil {
		t.Fatal(err)
	}

	var a, b any
	if err := json.Unmarshal(std, &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(fast, &b); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("encoders disagree (-encoding/json +sonic):\n%s", diff)
	}
}
