// Package server exposes the ledger engine over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tablestakes/ledger/internal/metrics"
	"github.com/tablestakes/ledger/internal/service"
	"github.com/tablestakes/ledger/internal/storage"
)

// Server wires the services into an HTTP handler.
type Server struct {
	ledger      *service.LedgerService
	settlements *service.SettlementService
	games       *service.GameService
}

// New creates a new Server over the given services.
func New(ledger *service.LedgerService, settlements *service.SettlementService, games *service.GameService) *Server {
	return &Server{ledger: ledger, settlements: settlements, games: games}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(requestLogger)
	r.Use(requestMetrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/participants", s.listParticipants)
		r.Post("/participants", s.addParticipant)

		r.Get("/entries", s.listEntries)
		r.Get("/balances", s.listBalances)

		r.Post("/expenses", s.recordExpense)
		r.Delete("/expenses/{expenseID}", s.deleteExpense)

		r.Get("/games", s.listGames)
		r.Post("/games", s.createGame)
		r.Get("/games/{gameID}", s.getGame)
		r.Post("/games/{gameID}/finalize", s.finalizeGame)
		r.Post("/games/{gameID}/reopen", s.reopenGame)
		r.Put("/games/{gameID}/players/{participantID}/paid", s.setPlayerPaid)

		r.Get("/transactions", s.listTransactions)

		r.Get("/settlement", s.getSettlement)
		r.Post("/settlement/generate", s.generateSettlement)
		r.Post("/settlement/items/{itemID}/paid", s.markItemPaid)
		r.Delete("/settlement/items/{itemID}/paid", s.unmarkItemPaid)
	})

	return r
}

// requestLogger logs every request with its duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// requestMetrics observes request latency by method and route pattern.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors to HTTP statuses. The body stays generic:
// state is unchanged, the caller may retry the whole operation.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrNotPaid),
		errors.Is(err, service.ErrGameFinalized),
		errors.Is(err, service.ErrGameNotFinalized),
		errors.Is(err, service.ErrUnbalancedGame):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		writeJSON(w, status, map[string]string{"error": "operation failed, state unchanged"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return service.ErrInvalidInput
	}
	return nil
}
