package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"sehatin/internal/cache"
	"sehatin/internal/middleware"
	"sehatin/internal/models"
	"sehatin/internal/nutrition"
	"sehatin/internal/session"
	"sehatin/internal/upstream"
)

const defaultHistoryLimit = 30

// StatsHandler serves the stats screen: weight history, weight chart and
// calorie chart, parameterised by period. Results are cached per (user,
// resource, period) and invalidated when a new weight log lands.
type StatsHandler struct {
	api    *upstream.Client
	cache  *cache.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewStatsHandler(api *upstream.Client, store *cache.Store, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{api: api, cache: store, logger: logger, now: time.Now}
}

func (h *StatsHandler) period(r *http.Request) (nutrition.Period, string, string, bool) {
	p := nutrition.Period(r.URL.Query().Get("period"))
	if p == "" {
		p = nutrition.PeriodWeek
	}
	from, to, err := nutrition.Range(p, h.now())
	if err != nil {
		return p, "", "", false
	}
	return p, from, to, true
}

func (h *StatsHandler) ListWeights(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	p, from, to, ok := h.period(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown period")
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	key := cache.Key(session.UserKey(token), "weights", string(p), strconv.Itoa(limit))
	if v, ok := h.cache.Get(key); ok {
		if items, ok := v.([]models.WeightLogEntry); ok {
			writeJSON(w, http.StatusOK, map[string]any{"period": p, "date_from": from, "date_to": to, "items": items})
			return
		}
	}

	items, err := h.api.ListWeights(r.Context(), token, from, to, limit)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to fetch weight history", err)
		return
	}
	if items == nil {
		items = []models.WeightLogEntry{}
	}
	h.cache.Set(key, items)
	writeJSON(w, http.StatusOK, map[string]any{"period": p, "date_from": from, "date_to": to, "items": items})
}

func (h *StatsHandler) WeightChart(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	p, from, to, ok := h.period(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown period")
		return
	}

	key := cache.Key(session.UserKey(token), "weight-chart", string(p))
	if v, ok := h.cache.Get(key); ok {
		if points, ok := v.([]models.WeightChartPoint); ok {
			writeJSON(w, http.StatusOK, map[string]any{"period": p, "date_from": from, "date_to": to, "chart_data": points})
			return
		}
	}

	points, err := h.api.WeightChart(r.Context(), token, string(p), from, to)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to fetch weight chart", err)
		return
	}
	if points == nil {
		points = []models.WeightChartPoint{}
	}
	h.cache.Set(key, points)
	writeJSON(w, http.StatusOK, map[string]any{"period": p, "date_from": from, "date_to": to, "chart_data": points})
}

func (h *StatsHandler) CalorieChart(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	p, from, to, ok := h.period(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown period")
		return
	}

	key := cache.Key(session.UserKey(token), "nutrition-chart", string(p))
	if v, ok := h.cache.Get(key); ok {
		if points, ok := v.([]models.CalorieChartPoint); ok {
			writeJSON(w, http.StatusOK, map[string]any{"period": p, "date_from": from, "date_to": to, "chart_data": points})
			return
		}
	}

	points, err := h.api.NutritionChart(r.Context(), token, string(p), from, to)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to fetch calorie chart", err)
		return
	}
	if points == nil {
		points = []models.CalorieChartPoint{}
	}
	h.cache.Set(key, points)
	writeJSON(w, http.StatusOK, map[string]any{"period": p, "date_from": from, "date_to": to, "chart_data": points})
}
