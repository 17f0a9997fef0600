// Package api implements the hosted CharAPI REST API.
// It provides evaluation and history endpoints backed by the evaluation
// engine, Postgres, and blob storage.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/charapi/charapi/internal/archive"
	"github.com/charapi/charapi/internal/history"
	"github.com/charapi/charapi/pkg/evaluate"
)

// Searcher finds organizations by name. The ProPublica client implements it.
type Searcher interface {
	SearchOrganizations(ctx context.Context, query string) ([]evaluate.Organization, error)
}

// Handler is the top-level API handler for the hosted CharAPI service.
type Handler struct {
	evaluator  *evaluate.Evaluator
	historySvc *history.Service
	archiver   *archive.Archiver
	searcher   Searcher
	cache      *ResultCache
}

// NewHandler creates a new API handler. historySvc, archiver, and searcher
// may be nil; the corresponding endpoints degrade gracefully.
func NewHandler(evaluator *evaluate.Evaluator, historySvc *history.Service, archiver *archive.Archiver, searcher Searcher, cache *ResultCache) *Handler {
	if cache == nil {
		cache = NewResultCacheFromEnv()
	}
	return &Handler{
		evaluator:  evaluator,
		historySvc: historySvc,
		archiver:   archiver,
		searcher:   searcher,
		cache:      cache,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Write endpoints (auth-protected)
	mux.HandleFunc("POST /api/v1/evaluate", h.handleBatchEvaluate)

	// Read endpoints
	mux.HandleFunc("GET /api/v1/organizations/{ein}/evaluation", h.handleEvaluate)
	mux.HandleFunc("GET /api/v1/organizations/{ein}/history", h.handleOrgHistory)
	mux.HandleFunc("GET /api/v1/organizations", h.handleListOrganizations)
	mux.HandleFunc("GET /api/v1/evaluations/{evaluationID}", h.handleGetEvaluation)
	mux.HandleFunc("GET /api/v1/search", h.handleSearch)
	mux.HandleFunc("GET /api/v1/health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
