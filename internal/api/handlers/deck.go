package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/api/response"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/api/websocket"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/deckservice"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/budget"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/coherence"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/deckimport"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/prizes"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/probability"
)

// DeckService is the deck analysis surface used by DeckHandler.
type DeckService interface {
	Validate(ctx context.Context, entries []cards.DeckEntry) (coherence.Report, error)
	Prizes(ctx context.Context, entries []cards.DeckEntry) (prizes.Report, error)
	PrizesChart(ctx context.Context, entries []cards.DeckEntry, w io.Writer) error
	Analyze(ctx context.Context, entries []cards.DeckEntry) (*deckservice.Analysis, error)
	Optimize(ctx context.Context, req deckservice.OptimizeRequest, onChange func(budget.DeckChange)) (*deckservice.Optimization, error)
	UpgradePath(ctx context.Context, entries []cards.DeckEntry, maxBudget float64, steps int) (budget.UpgradePath, error)
	Mulligan(ctx context.Context, entries []cards.DeckEntry) (probability.OpeningHandReport, error)
	Parse(ctx context.Context, text string) (*deckimport.Result, error)
}

// DeckHandler handles deck analysis API requests.
type DeckHandler struct {
	svc DeckService
	hub *websocket.Hub
}

// NewDeckHandler creates a new DeckHandler. hub may be nil.
func NewDeckHandler(svc DeckService, hub *websocket.Hub) *DeckHandler {
	return &DeckHandler{svc: svc, hub: hub}
}

// DeckRequest carries a deck list.
type DeckRequest struct {
	Entries []cards.DeckEntry `json:"entries"`
}

func (h *DeckHandler) readDeck(w http.ResponseWriter, r *http.Request) ([]cards.DeckEntry, bool) {
	var req DeckRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.BadRequest(w, err)
		return nil, false
	}
	return req.Entries, true
}

// Coherence validates a deck.
func (h *DeckHandler) Coherence(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.readDeck(w, r)
	if !ok {
		return
	}
	report, err := h.svc.Validate(r.Context(), entries)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, report)
}

// Prizes analyzes a deck's prize economy.
func (h *DeckHandler) Prizes(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.readDeck(w, r)
	if !ok {
		return
	}
	report, err := h.svc.Prizes(r.Context(), entries)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, report)
}

// PrizesChart returns the prize economy as an HTML chart page.
func (h *DeckHandler) PrizesChart(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.readDeck(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.PrizesChart(r.Context(), entries, &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Analyze runs every read-only analysis on a deck.
func (h *DeckHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.readDeck(w, r)
	if !ok {
		return
	}
	analysis, err := h.svc.Analyze(r.Context(), entries)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, analysis)
}

// OptimizeResponse is an optimization result tagged with its run ID, which
// matches the websocket events of the same run.
type OptimizeResponse struct {
	RunID string `json:"runId"`
	*deckservice.Optimization
}

// Optimize runs the budget optimizer, streaming changes to websocket clients.
func (h *DeckHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req deckservice.OptimizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	// Clients pick the run ID with ?run= so they can subscribe on /ws
	// before posting.
	runID := r.URL.Query().Get("run")
	if runID == "" {
		runID = middleware.GetReqID(r.Context())
	}
	if runID == "" {
		runID = uuid.NewString()
	}
	pub := websocket.NewOptimizationPublisher(h.hub, runID)

	result, err := h.svc.Optimize(r.Context(), req, pub.OnChange)
	if err != nil {
		writeError(w, err)
		return
	}
	pub.Completed(result.Report, result.SnapshotID)
	response.Success(w, OptimizeResponse{RunID: runID, Optimization: result})
}

// UpgradePathRequest asks for the next upgrade steps of a deck.
type UpgradePathRequest struct {
	Entries   []cards.DeckEntry `json:"entries"`
	MaxBudget float64           `json:"maxBudget"`
	Steps     int               `json:"steps"`
}

// UpgradePath lists upgrade steps for a deck.
func (h *DeckHandler) UpgradePath(w http.ResponseWriter, r *http.Request) {
	var req UpgradePathRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}
	path, err := h.svc.UpgradePath(r.Context(), req.Entries, req.MaxBudget, req.Steps)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, path)
}

// Mulligan reports opening hand odds.
func (h *DeckHandler) Mulligan(w http.ResponseWriter, r *http.Request) {
	entries, ok := h.readDeck(w, r)
	if !ok {
		return
	}
	report, err := h.svc.Mulligan(r.Context(), entries)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, report)
}

// ParseRequest carries deck list text.
type ParseRequest struct {
	Text string `json:"text"`
}

// Parse turns deck list text into entries.
func (h *DeckHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}
	if req.Text == "" {
		response.BadRequest(w, errors.New("deck list text is required"))
		return
	}
	result, err := h.svc.Parse(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, result)
}
