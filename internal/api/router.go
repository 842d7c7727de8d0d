package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/api/handlers"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Deck analysis routes are the expensive ones and are rate limited.
		deckHandler := handlers.NewDeckHandler(s.svc, s.wsHub)
		r.Route("/decks", func(r chi.Router) {
			if s.cfg.RateLimit > 0 {
				r.Use(newClientLimiter(s.cfg.RateLimit, s.cfg.RateBurst).middleware)
			}
			r.Post("/coherence", deckHandler.Coherence)
			r.Post("/prizes", deckHandler.Prizes)
			r.Post("/prizes/chart", deckHandler.PrizesChart)
			r.Post("/analyze", deckHandler.Analyze)
			r.Post("/optimize", deckHandler.Optimize)
			r.Post("/upgrade-path", deckHandler.UpgradePath)
			r.Post("/mulligan", deckHandler.Mulligan)
			r.Post("/parse", deckHandler.Parse)
		})

		reportHandler := handlers.NewReportHandler(s.svc)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", reportHandler.ListReports)
			r.Get("/{reportID}", reportHandler.GetReport)
		})

		cardHandler := handlers.NewCardHandler(s.svc)
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.SearchCards)
			r.Get("/{cardID}", cardHandler.GetCard)
		})

		systemHandler := handlers.NewSystemHandler(s.svc, s.version)
		r.Get("/metrics", systemHandler.GetMetrics)
		r.Get("/version", systemHandler.GetVersion)
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "ptcg-deck-api",
		"clients": s.wsHub.ClientCount(),
	})
}
