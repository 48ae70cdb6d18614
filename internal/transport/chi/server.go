// Package chi exposes the locator's HTTP API.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campus-maps/vendmap/internal/domain"
	"github.com/campus-maps/vendmap/internal/domain/machine"
	"github.com/campus-maps/vendmap/internal/domain/search/filterspec"
	"github.com/campus-maps/vendmap/internal/domain/search/result"
	"github.com/campus-maps/vendmap/internal/metrics"
	directionsuc "github.com/campus-maps/vendmap/internal/usecase/directions"
	interpretuc "github.com/campus-maps/vendmap/internal/usecase/interpret"
	searchuc "github.com/campus-maps/vendmap/internal/usecase/search"
)

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the usecases to their HTTP handlers.
type Server struct {
	search     *searchuc.Service
	directions *directionsuc.Service
	interpret  *interpretuc.Service
	pinger     Pinger
	logger     *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	directions *directionsuc.Service,
	interpret *interpretuc.Service,
	pinger Pinger,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:     search,
		directions: directions,
		interpret:  interpret,
		pinger:     pinger,
		logger:     logger,
	}
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/machines/search", s.SearchMachines)
	r.Post("/api/route", s.Route)
	r.Post("/api/interpret", s.Interpret)
	r.Get("/healthz", s.Health)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// machineHit flattens a search hit for the response body.
type machineHit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	machine.Document
}

// searchResponse is the envelope for GET /api/machines/search.
type searchResponse struct {
	OK      bool         `json:"ok"`
	Total   int          `json:"total"`
	From    int          `json:"from"`
	Size    int          `json:"size"`
	Results []machineHit `json:"results"`
}

// SearchMachines handles GET /api/machines/search.
func (s *Server) SearchMachines(w http.ResponseWriter, r *http.Request) {
	spec := filterspec.Parse(r.URL.Query())

	page, err := s.search.Search(r.Context(), spec)
	if err != nil {
		s.searchError(w, err)
		return
	}

	metrics.ObserveSearch("success")
	writeJSON(w, http.StatusOK, searchResponse{
		OK:      true,
		Total:   page.Total,
		From:    page.From,
		Size:    page.Size,
		Results: hitsFromPage(page),
	})
}

func hitsFromPage(page result.Page) []machineHit {
	hits := make([]machineHit, 0, len(page.Machines))
	for _, m := range page.Machines {
		hits = append(hits, machineHit{ID: m.ID, Score: m.Score, Document: m.Doc})
	}
	return hits
}

// searchError maps search failures: an unreachable backend is a gateway
// problem and carries the underlying text so operators can see it; anything
// else is internal.
func (s *Server) searchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBackendUnavailable):
		metrics.ObserveSearch("backend_unavailable")
		s.logger.Error("search backend unavailable", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrQueryRejected):
		metrics.ObserveSearch("query_rejected")
		s.logger.Error("search query rejected", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		metrics.ObserveSearch("internal_error")
		s.logger.Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// routeRequest is the body of POST /api/route. Coordinates are [lon, lat].
type routeRequest struct {
	Start *[2]float64 `json:"start"`
	End   *[2]float64 `json:"end"`
}

// Route handles POST /api/route.
func (s *Server) Route(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Start == nil || req.End == nil {
		writeError(w, http.StatusBadRequest, "start and end coordinates are required")
		return
	}

	route, err := s.directions.Walk(r.Context(), *req.Start, *req.End)
	if err != nil {
		s.logger.Error("route lookup failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, domain.ErrDirectionsFailed.Error())
		return
	}

	writeJSON(w, http.StatusOK, struct {
		OK bool `json:"ok"`
		directionsuc.Route
	}{OK: true, Route: route})
}

// interpretRequest is the body of POST /api/interpret.
type interpretRequest struct {
	Text string `json:"text"`
}

// interpretResponse echoes the normalized filters as plain parameter values.
type interpretResponse struct {
	OK      bool              `json:"ok"`
	Filters interpretedFilter `json:"filters"`
}

type interpretedFilter struct {
	Query          string   `json:"q,omitempty"`
	Services       []string `json:"services,omitempty"`
	PaymentMethods []string `json:"payment_methods,omitempty"`
	Providers      []string `json:"provider,omitempty"`
	Campus         string   `json:"campus,omitempty"`
	Zip            string   `json:"zip,omitempty"`
	Status         string   `json:"status,omitempty"`
	SpecialAccess  *string  `json:"special_access,omitempty"`
}

// Interpret handles POST /api/interpret.
func (s *Server) Interpret(w http.ResponseWriter, r *http.Request) {
	var req interpretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	spec, err := s.interpret.Interpret(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("interpretation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, domain.ErrInterpretFailed.Error())
		return
	}

	writeJSON(w, http.StatusOK, interpretResponse{
		OK: true,
		Filters: interpretedFilter{
			Query:          spec.Query,
			Services:       spec.Services,
			PaymentMethods: spec.PaymentMethods,
			Providers:      spec.Providers,
			Campus:         spec.Campus,
			Zip:            spec.Zip,
			Status:         spec.Status,
			SpecialAccess:  spec.SpecialAccess,
		},
	})
}

// Health handles GET /healthz: one probe, the search backend.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": message})
}
