package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"urlguard/internal/domain/models"
	"urlguard/internal/domain/services"
	"urlguard/internal/infrastructure/cache"
	"urlguard/internal/lists"
	"urlguard/internal/storage"
	"urlguard/pkg/logger"
)

// URLHandler handles URL analysis API requests.
type URLHandler struct {
	analyzer  *services.Analyzer
	store     storage.Store
	cache     *cache.RedisCache
	blacklist lists.Source
	cacheTTL  time.Duration
	logger    *logger.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(deps Dependencies) *URLHandler {
	return &URLHandler{
		analyzer:  deps.Analyzer,
		store:     deps.Store,
		cache:     deps.Cache,
		blacklist: deps.Blacklist,
		cacheTTL:  deps.CacheTTL,
		logger:    deps.Logger.WithComponent("url-handler"),
	}
}

// Analyze handles POST /api/v1/url/analyze.
func (h *URLHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.URLAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	cacheKey := cache.AnalysisKey(req.URL)
	if h.cache != nil && !req.Persist {
		var cached models.URLAnalysisResult
		if err := h.cache.GetJSON(r.Context(), cacheKey, &cached); err == nil {
			h.respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	result := h.analyzer.Analyze(req.URL)

	if req.Persist && !h.persist(w, r, &result) {
		return
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(r.Context(), cacheKey, result, h.cacheTTL); err != nil {
			h.logger.Warn().Err(err).Msg("failed to cache analysis result")
		}
	}

	h.respondJSON(w, http.StatusOK, result)
}

// AnalyzeBatch handles POST /api/v1/url/analyze/batch.
func (h *URLHandler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req models.URLBatchAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.URLs) == 0 {
		h.respondError(w, http.StatusBadRequest, "urls array is required")
		return
	}

	results, err := h.analyzer.BatchAnalyze(req.URLs)
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	h.finishBatch(w, r, results, req.Persist)
}

// AnalyzeText handles POST /api/v1/url/analyze/text.
func (h *URLHandler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req models.URLTextAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		h.respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	results, err := h.analyzer.AnalyzeText(req.Text)
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	h.finishBatch(w, r, results, req.Persist)
}

// Recent handles GET /api/v1/url/recent.
func (h *URLHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.respondError(w, http.StatusServiceUnavailable, "no store configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	results, err := h.store.FetchRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to fetch recent analyses")
		h.respondError(w, http.StatusInternalServerError, "failed to fetch recent analyses")
		return
	}

	h.respondJSON(w, http.StatusOK, models.URLBatchAnalyzeResponse{
		Results:    results,
		TotalCount: len(results),
		AnalyzedAt: time.Now().UTC(),
	})
}

// AddToBlacklist handles POST /api/v1/url/blacklist. The appended entry is
// picked up by analyzers constructed after the write, not existing ones.
func (h *URLHandler) AddToBlacklist(w http.ResponseWriter, r *http.Request) {
	var req models.BlacklistAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Domain == "" {
		h.respondError(w, http.StatusBadRequest, "domain is required")
		return
	}

	if err := h.blacklist.Append(req.Domain); err != nil {
		if errors.Is(err, lists.ErrInvalidDomainToken) {
			h.respondError(w, http.StatusBadRequest, "invalid domain format")
			return
		}
		h.logger.Error().Err(err).Str("domain", req.Domain).Msg("failed to append to blacklist")
		h.respondError(w, http.StatusInternalServerError, "failed to update blacklist")
		return
	}

	h.logger.Info().Str("domain", req.Domain).Msg("domain added to blacklist")
	h.respondJSON(w, http.StatusOK, map[string]any{"domain": req.Domain, "added": true})
}

func (h *URLHandler) finishBatch(w http.ResponseWriter, r *http.Request, results []models.URLAnalysisResult, persist bool) {
	if persist {
		for i := range results {
			if !h.persist(w, r, &results[i]) {
				return
			}
		}
	}

	h.respondJSON(w, http.StatusOK, models.URLBatchAnalyzeResponse{
		Results:    results,
		TotalCount: len(results),
		AnalyzedAt: time.Now().UTC(),
	})
}

// persist writes one result, responding with the storage fault on failure.
// A requested persistence is never silently dropped.
func (h *URLHandler) persist(w http.ResponseWriter, r *http.Request, result *models.URLAnalysisResult) bool {
	if h.store == nil {
		h.respondError(w, http.StatusServiceUnavailable, "no store configured")
		return false
	}
	if err := h.store.SaveAnalysis(r.Context(), result); err != nil {
		h.logger.Error().Err(err).Str("url", result.URL).Msg("failed to persist analysis")
		h.respondError(w, http.StatusInternalServerError, "failed to persist analysis")
		return false
	}
	return true
}

func (h *URLHandler) respondAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrBatchLimitExceeded):
		h.respondError(w, http.StatusBadRequest, services.ErrBatchLimitExceeded.Error())
	case errors.Is(err, services.ErrRateLimitExceeded):
		h.respondError(w, http.StatusTooManyRequests, services.ErrRateLimitExceeded.Error())
	default:
		h.logger.Error().Err(err).Msg("analysis failed")
		h.respondError(w, http.StatusInternalServerError, "analysis failed")
	}
}

func (h *URLHandler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *URLHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
