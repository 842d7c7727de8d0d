package deckimport

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
)

const liveExport = `Pokémon: 3
4 Charizard ex OBF 125
2 Pidgeot ex OBF 164
1 Radiant Charizard

Trainer: 2
4 Boss's Orders PAL 172
4x Iono

Energy: 1
8 Basic Fire Energy SVE 2

Total Cards: 23`

func TestParse(t *testing.T) {
	got, err := Parse(liveExport)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Line{
		{LineNumber: 2, Quantity: 4, Name: "Charizard ex", SetCode: "OBF", CollectorNumber: "125", Section: cards.SupertypePokemon},
		{LineNumber: 3, Quantity: 2, Name: "Pidgeot ex", SetCode: "OBF", CollectorNumber: "164", Section: cards.SupertypePokemon},
		{LineNumber: 4, Quantity: 1, Name: "Radiant Charizard", Section: cards.SupertypePokemon},
		{LineNumber: 7, Quantity: 4, Name: "Boss's Orders", SetCode: "PAL", CollectorNumber: "172", Section: cards.SupertypeTrainer},
		{LineNumber: 8, Quantity: 4, Name: "Iono", Section: cards.SupertypeTrainer},
		{LineNumber: 11, Quantity: 8, Name: "Basic Fire Energy", SetCode: "SVE", CollectorNumber: "2", Section: cards.SupertypeEnergy},
	}
	if diff := cmp.Diff(want, got.Lines); diff != "" {
		t.Errorf("Parse() lines mismatch (-want +got):\n%s", diff)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", got.Warnings)
	}
}

func TestParseLineShapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantSet  string
		wantNum  string
	}{
		{"multi-word rule box before set", "1 Giratina VSTAR LOR 131", "Giratina VSTAR", "LOR", "131"},
		{"single letter suffix", "3 Arceus V BRS 122", "Arceus V", "BRS", "122"},
		{"name only", "2 Mew VMAX", "Mew VMAX", "", ""},
		{"apostrophe", "4 Professor's Research SVI 189", "Professor's Research", "SVI", "189"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(got.Lines) != 1 {
				t.Fatalf("lines = %d, want 1", len(got.Lines))
			}
			l := got.Lines[0]
			if l.Name != tt.wantName || l.SetCode != tt.wantSet || l.CollectorNumber != tt.wantNum {
				t.Errorf("got (%q, %q, %q), want (%q, %q, %q)",
					l.Name, l.SetCode, l.CollectorNumber, tt.wantName, tt.wantSet, tt.wantNum)
			}
		})
	}
}

func TestParseWarningsAndEmpty(t *testing.T) {
	got, err := Parse("Deck list for locals\n4 Iono\n0 Nest Ball")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got.Lines) != 1 {
		t.Errorf("lines = %d, want 1", len(got.Lines))
	}
	if len(got.Warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", got.Warnings)
	}
	if !strings.HasPrefix(got.Warnings[0], "Line 1:") {
		t.Errorf("first warning = %q", got.Warnings[0])
	}

	for _, input := range []string{"", "   \n\n", "Pokémon: 0\nTotal Cards: 0", "just words"} {
		if _, err := Parse(input); !errors.Is(err, ErrEmptyList) {
			t.Errorf("Parse(%q) error = %v, want ErrEmptyList", input, err)
		}
	}
}

type mapResolver struct {
	byName map[string][]cards.Card
	err    error
	calls  []string
}

func (m *mapResolver) FindByName(_ context.Context, name string) ([]cards.Card, error) {
	m.calls = append(m.calls, name)
	if m.err != nil {
		return nil, m.err
	}
	return m.byName[strings.ToLower(name)], nil
}

func TestImportResolvesPrintings(t *testing.T) {
	resolver := &mapResolver{byName: map[string][]cards.Card{
		"charizard ex": {
			{ID: "sv3pt5-6", Name: "Charizard ex", SetID: "sv3pt5", Number: "6"},
			{ID: "sv3-125", Name: "Charizard ex", SetID: "obf", Number: "125"},
		},
		"iono": {
			{ID: "sv2-185", Name: "Iono", SetID: "sv2", Number: "185"},
			{ID: "sv2-254", Name: "Iono", SetID: "sv2", Number: "254"},
		},
		"fire energy": {
			{ID: "sve-2", Name: "Fire Energy", Supertype: cards.SupertypeEnergy, Subtypes: []string{"Basic"}},
		},
	}}

	im := NewImporter(resolver, nil)
	got, err := im.Import(context.Background(), `4 Charizard ex OBF 125
2 Iono PAL 254
2 Iono
8 Basic Fire Energy SVE 2
1 Missingno`)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	ids := make([]string, 0, len(got.Entries))
	qty := make(map[string]int)
	for _, e := range got.Entries {
		ids = append(ids, e.Card.ID)
		qty[e.Card.ID] = e.Quantity
	}
	// "2 Iono" has no number and falls back to the first printing.
	wantIDs := []string{"sv3-125", "sv2-254", "sv2-185", "sve-2"}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Errorf("entry ids mismatch (-want +got):\n%s", diff)
	}
	if qty["sve-2"] != 8 {
		t.Errorf("fire energy quantity = %d, want 8", qty["sve-2"])
	}
	if diff := cmp.Diff([]string{"Missingno"}, got.Unresolved); diff != "" {
		t.Errorf("unresolved mismatch (-want +got):\n%s", diff)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", got.Warnings)
	}
}

func TestImportMergesDuplicates(t *testing.T) {
	resolver := &mapResolver{byName: map[string][]cards.Card{
		"nest ball": {{ID: "sv1-181", Name: "Nest Ball", Number: "181"}},
	}}

	got, err := NewImporter(resolver, nil).Import(context.Background(), "2 Nest Ball\n2 Nest Ball SVI 181")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(got.Entries) != 1 || got.Entries[0].Quantity != 4 {
		t.Errorf("entries = %+v, want one entry of 4", got.Entries)
	}
}

func TestImportWithoutResolver(t *testing.T) {
	got, err := NewImporter(nil, nil).Import(context.Background(), liveExport)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n := cards.TotalCards(got.Entries); n != 23 {
		t.Errorf("total cards = %d, want 23", n)
	}
	if n := cards.CountBySupertype(got.Entries, cards.SupertypeTrainer); n != 8 {
		t.Errorf("trainers = %d, want 8", n)
	}
}

func TestImportResolverError(t *testing.T) {
	boom := errors.New("database is locked")
	_, err := NewImporter(&mapResolver{err: boom}, nil).Import(context.Background(), "4 Iono")
	if !errors.Is(err, boom) {
		t.Fatalf("Import() error = %v, want wrapped %v", err, boom)
	}

	_, err = NewImporter(&mapResolver{}, nil).Import(context.Background(), "")
	if !errors.Is(err, ErrEmptyList) {
		t.Errorf("Import(\"\") error = %v, want ErrEmptyList", err)
	}
}
