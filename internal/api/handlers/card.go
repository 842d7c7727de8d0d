package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/api/response"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
)

// CardService looks up stored cards.
type CardService interface {
	Card(ctx context.Context, id string) (cards.Card, error)
	SearchCards(ctx context.Context, query string, limit int) ([]cards.Card, error)
}

// CardHandler handles card-related API requests.
type CardHandler struct {
	svc CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(svc CardService) *CardHandler {
	return &CardHandler{svc: svc}
}

// SearchCards searches cards by name.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		response.BadRequest(w, errors.New("name query parameter is required"))
		return
	}

	limit := 25
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	found, err := h.svc.SearchCards(r.Context(), name, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, found)
}

// GetCard returns a card by ID.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	if cardID == "" {
		response.BadRequest(w, errors.New("card ID is required"))
		return
	}

	card, err := h.svc.Card(r.Context(), cardID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, card)
}
