package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/api/response"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/deckservice"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/deckimport"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage"
)

const maxBodyBytes = 4 << 20

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, deckservice.ErrInvalidDeck), errors.Is(err, deckimport.ErrEmptyList):
		response.BadRequest(w, err)
	case errors.Is(err, storage.ErrCardNotFound), errors.Is(err, storage.ErrReportNotFound):
		response.NotFound(w, err)
	case errors.Is(err, deckservice.ErrStorageUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		response.ServiceUnavailable(w, err)
	default:
		response.InternalError(w, err)
	}
}

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(data) == 0 {
		return errors.New("request body is required")
	}
	if err := sonic.ConfigStd.Unmarshal(data, v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}
