package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sehatin/internal/cache"
	"sehatin/internal/gate"
	"sehatin/internal/middleware"
	"sehatin/internal/models"
	"sehatin/internal/nutrition"
	"sehatin/internal/session"
	"sehatin/internal/upstream"
)

// AppStateHandler resolves the check-in gate on each app visit: which modal
// (if any) the UI must show, and whether background scroll is locked.
type AppStateHandler struct {
	api    *upstream.Client
	cache  *cache.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewAppStateHandler(api *upstream.Client, store *cache.Store, logger *zap.Logger) *AppStateHandler {
	return &AppStateHandler{api: api, cache: store, logger: logger, now: time.Now}
}

type appStateResponse struct {
	State                 string  `json:"state"`
	ShowProfileModal      bool    `json:"show_profile_modal"`
	ShowDailyCheckinModal bool    `json:"show_daily_checkin_modal"`
	ScrollLock            bool    `json:"scroll_lock"`
	CheckedInToday        bool    `json:"checked_in_today"`
	CurrentWeightKG       float64 `json:"current_weight_kg"`
	GoalAdvisory          string  `json:"goal_advisory,omitempty"`
}

func (h *AppStateHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	profile, err := fetchProfile(r.Context(), h.api, h.cache, token)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to fetch user profile", err)
		return
	}

	res := gate.Evaluate(r.Context(), profile, nutrition.Today(h.now()), func(ctx context.Context, date string) (int, error) {
		items, err := h.api.ListWeights(ctx, token, date, date, 1)
		return len(items), err
	})

	advisory, _ := nutrition.GoalAdvisory(profile.GoalType)
	writeJSON(w, http.StatusOK, appStateResponse{
		State:                 res.State.String(),
		ShowProfileModal:      res.State == gate.NeedsProfile,
		ShowDailyCheckinModal: res.State == gate.NeedsDailyCheckin,
		ScrollLock:            gate.ScrollLock(res.State),
		CheckedInToday:        res.CheckedInToday,
		CurrentWeightKG:       profile.CurrentWeightKG,
		GoalAdvisory:          advisory,
	})
}

// fetchProfile reads the profile through the shared cache. The cached entry
// is invalidated on every profile save so the gate re-derives from scratch.
func fetchProfile(ctx context.Context, api *upstream.Client, store *cache.Store, token string) (*models.UserProfile, error) {
	key := cache.Key(session.UserKey(token), "user")
	if v, ok := store.Get(key); ok {
		if p, ok := v.(*models.UserProfile); ok {
			return p, nil
		}
	}
	p, err := api.Me(ctx, token)
	if err != nil {
		return nil, err
	}
	store.Set(key, p)
	return p, nil
}
