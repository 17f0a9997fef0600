package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/charapi/charapi/internal/history"
	"github.com/charapi/charapi/pkg/evaluate"
)

type evaluationResponse struct {
	Result     *evaluate.EvaluationResult `json:"result"`
	Cached     bool                       `json:"cached"`
	ArchiveRef string                     `json:"archive_ref,omitempty"`
}

// handleEvaluate evaluates a single organization. Results are served from
// the in-memory cache unless ?refresh=1 is given. When history and archive
// backends are configured, fresh evaluations are recorded in both.
func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	ein := evaluate.NormalizeEIN(r.PathValue("ein"))
	if ein == "" {
		writeError(w, http.StatusBadRequest, "invalid ein: no digits")
		return
	}

	refresh := r.URL.Query().Get("refresh") == "1"
	if !refresh {
		if result := h.cache.Get(ein); result != nil {
			writeJSON(w, http.StatusOK, evaluationResponse{Result: result, Cached: true})
			return
		}
	}

	ctx := r.Context()
	result, err := h.evaluator.Evaluate(ctx, ein)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "evaluation failed: "+err.Error())
		return
	}
	h.cache.Put(ein, result)

	resp := evaluationResponse{Result: result}
	if h.archiver != nil {
		ref, err := h.archiver.Archive(ctx, result)
		if err != nil {
			log.Printf("archive evaluation for %s: %v", ein, err)
		} else {
			resp.ArchiveRef = ref
		}
	}
	if h.historySvc != nil {
		var ref *string
		if resp.ArchiveRef != "" {
			ref = &resp.ArchiveRef
		}
		if _, err := h.historySvc.RecordEvaluation(ctx, result, ref); err != nil {
			log.Printf("record evaluation for %s: %v", ein, err)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type batchEvaluateRequest struct {
	EINs []string `json:"eins"`
}

type batchEvaluateResponse struct {
	Results []*evaluate.EvaluationResult `json:"results"`
	Errors  map[string]string            `json:"errors,omitempty"`
}

// handleBatchEvaluate evaluates several organizations in one request.
// Per-EIN failures are reported alongside the successful results.
func (h *Handler) handleBatchEvaluate(w http.ResponseWriter, r *http.Request) {
	var req batchEvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.EINs) == 0 {
		writeError(w, http.StatusBadRequest, "eins is required")
		return
	}

	ctx := r.Context()
	resp := batchEvaluateResponse{Results: []*evaluate.EvaluationResult{}}
	for _, raw := range req.EINs {
		ein := evaluate.NormalizeEIN(raw)
		if ein == "" {
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[raw] = "invalid ein: no digits"
			continue
		}
		result, err := h.evaluator.Evaluate(ctx, ein)
		if err != nil {
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[ein] = err.Error()
			continue
		}
		h.cache.Put(ein, result)
		resp.Results = append(resp.Results, result)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleOrgHistory(w http.ResponseWriter, r *http.Request) {
	if h.historySvc == nil {
		writeError(w, http.StatusServiceUnavailable, "history store not configured")
		return
	}

	ein := evaluate.NormalizeEIN(r.PathValue("ein"))
	if ein == "" {
		writeError(w, http.StatusBadRequest, "invalid ein: no digits")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	rows, err := h.historySvc.ListEvaluations(r.Context(), ein, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list evaluations: "+err.Error())
		return
	}
	if rows == nil {
		rows = []history.EvaluationRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	if h.historySvc == nil {
		writeError(w, http.StatusServiceUnavailable, "history store not configured")
		return
	}

	orgs, err := h.historySvc.ListOrganizations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list organizations: "+err.Error())
		return
	}
	if orgs == nil {
		orgs = []history.Organization{}
	}
	writeJSON(w, http.StatusOK, orgs)
}

func (h *Handler) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	if h.historySvc == nil {
		writeError(w, http.StatusServiceUnavailable, "history store not configured")
		return
	}

	row, err := h.historySvc.GetEvaluation(r.Context(), r.PathValue("evaluationID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "evaluation not found")
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if h.searcher == nil {
		writeError(w, http.StatusServiceUnavailable, "search not configured")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	orgs, err := h.searcher.SearchOrganizations(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search failed: "+err.Error())
		return
	}
	if orgs == nil {
		orgs = []evaluate.Organization{}
	}
	writeJSON(w, http.StatusOK, orgs)
}
