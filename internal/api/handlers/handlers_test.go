package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/deckservice"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/metrics"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/budget"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/coherence"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/deckimport"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/prizes"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/probability"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage/repository"
)

// mockService implements every service interface used by the handlers.
type mockService struct {
	err         error
	gotEntries  []cards.DeckEntry
	gotOptimize deckservice.OptimizeRequest
	changes     []budget.DeckChange
	snapshot    *repository.Snapshot
}

func (m *mockService) Validate(_ context.Context, entries []cards.DeckEntry) (coherence.Report, error) {
	m.gotEntries = entries
	return coherence.Report{CoherenceScore: 85, IsCoherent: true}, m.err
}

func (m *mockService) Prizes(_ context.Context, entries []cards.DeckEntry) (prizes.Report, error) {
	m.gotEntries = entries
	return prizes.Report{OverallEfficiency: 70}, m.err
}

func (m *mockService) PrizesChart(_ context.Context, _ []cards.DeckEntry, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, "<html>chart</html>")
	return err
}

func (m *mockService) Analyze(_ context.Context, entries []cards.DeckEntry) (*deckservice.Analysis, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &deckservice.Analysis{DeckHash: cards.Fingerprint(entries), SnapshotID: "snap-1"}, nil
}

func (m *mockService) Optimize(_ context.Context, req deckservice.OptimizeRequest, onChange func(budget.DeckChange)) (*deckservice.Optimization, error) {
	m.gotOptimize = req
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.changes {
		onChange(c)
	}
	return &deckservice.Optimization{
		Report:     &budget.Report{Changes: m.changes, TotalCost: 5, OriginalCost: 61},
		SnapshotID: "snap-2",
	}, nil
}

func (m *mockService) UpgradePath(_ context.Context, _ []cards.DeckEntry, maxBudget float64, steps int) (budget.UpgradePath, error) {
	return budget.UpgradePath{MaxBudget: maxBudget, Steps: make([]budget.UpgradeStep, steps)}, m.err
}

func (m *mockService) Mulligan(_ context.Context, _ []cards.DeckEntry) (probability.OpeningHandReport, error) {
	return probability.OpeningHandReport{DeckSize: 60, BasicPokemon: 11, MulliganProbability: 0.22}, m.err
}

func (m *mockService) Parse(_ context.Context, text string) (*deckimport.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &deckimport.Result{Unresolved: []string{text}}, nil
}

func (m *mockService) Card(_ context.Context, id string) (cards.Card, error) {
	if m.err != nil {
		return cards.Card{}, m.err
	}
	return cards.Card{ID: id, Name: "Iono"}, nil
}

func (m *mockService) SearchCards(_ context.Context, query string, limit int) ([]cards.Card, error) {
	if m.err != nil {
		return nil, m.err
	}
	return make([]cards.Card, min(limit, 3)), nil
}

func (m *mockService) Report(_ context.Context, id string) (*repository.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

func (m *mockService) History(_ context.Context, _ string, limit int) ([]*repository.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []*repository.Snapshot{m.snapshot}, nil
}

func (m *mockService) Metrics() *metrics.Stats {
	return &metrics.Stats{Analyses: 7}
}

func newRouter(svc *mockService) http.Handler {
	r := chi.NewRouter()
	deck := NewDeckHandler(svc, nil)
	r.Post("/decks/coherence", deck.Coherence)
	r.Post("/decks/prizes", deck.Prizes)
	r.Post("/decks/prizes/chart", deck.PrizesChart)
	r.Post("/decks/analyze", deck.Analyze)
	r.Post("/decks/optimize", deck.Optimize)
	r.Post("/decks/upgrade-path", deck.UpgradePath)
	r.Post("/decks/mulligan", deck.Mulligan)
	r.Post("/decks/parse", deck.Parse)

	card := NewCardHandler(svc)
	r.Get("/cards", card.SearchCards)
	r.Get("/cards/{cardID}", card.GetCard)

	report := NewReportHandler(svc)
	r.Get("/reports", report.ListReports)
	r.Get("/reports/{reportID}", report.GetReport)

	system := NewSystemHandler(svc, "test")
	r.Get("/metrics", system.GetMetrics)
	r.Get("/version", system.GetVersion)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Data
}

const deckBody = `{"entries":[{"card":{"id":"sv3-125","name":"Charizard ex","supertype":"Pokémon","subtypes":["Stage 2","ex"],"hp":330},"quantity":2}]}`

func TestDeckEndpoints(t *testing.T) {
	svc := &mockService{}
	router := newRouter(svc)

	tests := []struct {
		path  string
		body  string
		key   string
		value any
	}{
		{"/decks/coherence", deckBody, "coherenceScore", float64(85)},
		{"/decks/prizes", deckBody, "overallEfficiency", float64(70)},
		{"/decks/analyze", deckBody, "snapshotId", "snap-1"},
		{"/decks/upgrade-path", `{"entries":[],"maxBudget":50,"steps":2}`, "maxBudget", float64(50)},
		{"/decks/mulligan", deckBody, "basicPokemon", float64(11)},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.value, decodeData(t, rec)[tt.key])
		})
	}

	// The decoded deck reaches the service with a normalised supertype.
	do(t, router, http.MethodPost, "/decks/coherence", deckBody)
	require.Len(t, svc.gotEntries, 1)
	assert.Equal(t, cards.SupertypePokemon, svc.gotEntries[0].Card.Supertype)
	assert.Equal(t, 330, svc.gotEntries[0].Card.HP)
}

func TestDeckEndpointErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		body string
		want int
	}{
		{"invalid deck", fmt.Errorf("%w: too many copies", deckservice.ErrInvalidDeck), deckBody, http.StatusBadRequest},
		{"malformed json", nil, `{"entries":`, http.StatusBadRequest},
		{"empty body", nil, "", http.StatusBadRequest},
		{"no storage", deckservice.ErrStorageUnavailable, deckBody, http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, deckBody, http.StatusServiceUnavailable},
		{"unexpected", fmt.Errorf("disk full"), deckBody, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newRouter(&mockService{err: tt.err}), http.MethodPost, "/decks/coherence", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestOptimizeEndpoint(t *testing.T) {
	svc := &mockService{changes: []budget.DeckChange{{Action: budget.ActionReplace, OldName: "Charizard ex", NewName: "Dragonite"}}}
	rec := do(t, newRouter(svc), http.MethodPost, "/decks/optimize",
		`{"entries":[],"budget":30,"priorityMode":"consistency","ownedCardIds":["a"],"maxChanges":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	assert.NotEmpty(t, data["runId"])
	assert.Equal(t, "snap-2", data["snapshotId"])
	assert.Equal(t, float64(5), data["totalCost"])
	assert.Len(t, data["changes"], 1)

	assert.Equal(t, 30.0, svc.gotOptimize.Budget)
	assert.Equal(t, "consistency", svc.gotOptimize.PriorityMode)
	require.NotNil(t, svc.gotOptimize.MaxChanges)
	assert.Equal(t, 3, *svc.gotOptimize.MaxChanges)

	rec = do(t, newRouter(svc), http.MethodPost, "/decks/optimize?run=my-run", `{"entries":[],"budget":30}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "my-run", decodeData(t, rec)["runId"])
}

func TestPrizesChartEndpoint(t *testing.T) {
	rec := do(t, newRouter(&mockService{}), http.MethodPost, "/decks/prizes/chart", deckBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "<html>chart</html>", rec.Body.String())
}

func TestParseEndpoint(t *testing.T) {
	router := newRouter(&mockService{})

	rec := do(t, router, http.MethodPost, "/decks/parse", `{"text":"4 Iono"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"4 Iono"}, decodeData(t, rec)["unresolved"])

	rec = do(t, router, http.MethodPost, "/decks/parse", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newRouter(&mockService{err: deckimport.ErrEmptyList}), http.MethodPost, "/decks/parse", `{"text":"nothing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCardEndpoints(t *testing.T) {
	router := newRouter(&mockService{})

	rec := do(t, router, http.MethodGet, "/cards/sv2-185", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sv2-185", decodeData(t, rec)["id"])

	rec = do(t, router, http.MethodGet, "/cards?name=ion&limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data, 2)

	rec = do(t, router, http.MethodGet, "/cards", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	missing := fmt.Errorf("%w: nope", storage.ErrCardNotFound)
	rec = do(t, newRouter(&mockService{err: missing}), http.MethodGet, "/cards/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportEndpoints(t *testing.T) {
	snap := &repository.Snapshot{
		ID:        "snap-1",
		Kind:      deckservice.KindAnalysis,
		DeckHash:  "abc",
		Payload:   []byte(`{"deckHash":"abc","coherence":{"score":90}}`),
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	router := newRouter(&mockService{snapshot: snap})

	rec := do(t, router, http.MethodGet, "/reports/snap-1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeData(t, rec)
	assert.Equal(t, "analysis", data["kind"])
	report := data["report"].(map[string]any)
	assert.Equal(t, "abc", report["deckHash"])

	rec = do(t, router, http.MethodGet, "/reports?deck=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"report"`)

	rec = do(t, router, http.MethodGet, "/reports", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	missing := fmt.Errorf("%w: gone", storage.ErrReportNotFound)
	rec = do(t, newRouter(&mockService{err: missing}), http.MethodGet, "/reports/gone", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSystemEndpoints(t *testing.T) {
	router := newRouter(&mockService{})

	rec := do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), decodeData(t, rec)["analyses"])

	rec = do(t, router, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", decodeData(t, rec)["version"])
}
