package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/api/response"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage/repository"
)

// ReportService loads stored report snapshots.
type ReportService interface {
	Report(ctx context.Context, id string) (*repository.Snapshot, error)
	History(ctx context.Context, deckHash string, limit int) ([]*repository.Snapshot, error)
}

// ReportHandler handles report snapshot requests.
type ReportHandler struct {
	svc ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// ReportResponse is a stored snapshot with its decoded payload.
type ReportResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	DeckHash  string    `json:"deckHash"`
	CreatedAt time.Time `json:"createdAt"`
	Report    any       `json:"report,omitempty"`
}

// GetReport returns a snapshot with its payload.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportID")
	if id == "" {
		response.BadRequest(w, errors.New("report ID is required"))
		return
	}

	snap, err := h.svc.Report(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload any
	if err := snap.Decode(&payload); err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, ReportResponse{
		ID:        snap.ID,
		Kind:      snap.Kind,
		DeckHash:  snap.DeckHash,
		CreatedAt: snap.CreatedAt,
		Report:    payload,
	})
}

// ListReports lists snapshot metadata for a deck fingerprint.
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	deckHash := r.URL.Query().Get("deck")
	if deckHash == "" {
		response.BadRequest(w, errors.New("deck query parameter is required"))
		return
	}

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	snaps, err := h.svc.History(r.Context(), deckHash, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]ReportResponse, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, ReportResponse{ID: s.ID, Kind: s.Kind, DeckHash: s.DeckHash, CreatedAt: s.CreatedAt})
	}
	response.Success(w, out)
}
