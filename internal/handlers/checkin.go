package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sehatin/internal/cache"
	"sehatin/internal/middleware"
	"sehatin/internal/nutrition"
	"sehatin/internal/session"
	"sehatin/internal/upstream"
)

// CheckinHandler accepts the daily weight submission. Validation failures are
// field errors and never reach the upstream; a successful save invalidates
// exactly the caches a new weight log can affect.
type CheckinHandler struct {
	api    *upstream.Client
	cache  *cache.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewCheckinHandler(api *upstream.Client, store *cache.Store, logger *zap.Logger) *CheckinHandler {
	return &CheckinHandler{api: api, cache: store, logger: logger, now: time.Now}
}

type checkinRequest struct {
	WeightKG *float64 `json:"weight_kg"`
	LogDate  string   `json:"log_date"` // optional, defaults to today
}

func (h *CheckinHandler) Post(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.WeightKG == nil {
		writeFieldError(w, "weight_kg", "Berat wajib diisi")
		return
	}
	if *req.WeightKG < 1 {
		writeFieldError(w, "weight_kg", "Berat minimal 1 kg")
		return
	}
	logDate := req.LogDate
	if logDate == "" {
		logDate = nutrition.Today(h.now())
	} else if !nutrition.ValidDate(logDate) {
		writeFieldError(w, "log_date", "invalid log_date format; expected YYYY-MM-DD")
		return
	}

	entry, err := h.api.CreateWeight(r.Context(), token, *req.WeightKG, logDate)
	if err != nil {
		// No invalidation on failure: the caches still reflect reality and
		// the modal stays open for a retry with the same input.
		writeUpstreamError(w, h.logger, "could not save weight", err)
		return
	}

	userKey := session.UserKey(token)
	h.cache.Invalidate(cache.Key(userKey, "weights"))
	h.cache.Invalidate(cache.Key(userKey, "weight-chart"))
	h.cache.Invalidate(cache.Key(userKey, "dashboard"))

	writeJSON(w, http.StatusCreated, map[string]any{
		"weight":           entry,
		"checked_in_today": true,
	})
}
