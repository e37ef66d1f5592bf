package handlers

import (
	"context"
	"encoding/json"
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

// ProfileHandler saves the profile-completion form. Policy for chaining: the
// full gate re-runs after every successful save, so a newly completed profile
// flows directly into the daily check-in question in the same response.
type ProfileHandler struct {
	api    *upstream.Client
	cache  *cache.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewProfileHandler(api *upstream.Client, store *cache.Store, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{api: api, cache: store, logger: logger, now: time.Now}
}

type profileRequest struct {
	CurrentWeightKG *float64         `json:"current_weight_kg"`
	BirthDate       *string          `json:"birth_date"`
	HeightCM        *float64         `json:"height_cm"`
	Gender          *models.Gender   `json:"gender"`
	GoalType        *models.GoalType `json:"goal_type"`
	ActivityLevel   *string          `json:"activity_level"`
}

type profileResponse struct {
	User                  *models.UserProfile `json:"user"`
	State                 string              `json:"state"`
	ShowDailyCheckinModal bool                `json:"show_daily_checkin_modal"`
	ScrollLock            bool                `json:"scroll_lock"`
	GoalAdvisory          string              `json:"goal_advisory,omitempty"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.CurrentWeightKG != nil && *req.CurrentWeightKG <= 0 {
		writeFieldError(w, "current_weight_kg", "Berat badan harus lebih besar dari 0")
		return
	}
	if req.HeightCM != nil && *req.HeightCM <= 0 {
		writeFieldError(w, "height_cm", "Tinggi badan harus lebih besar dari 0")
		return
	}
	if req.BirthDate != nil && !nutrition.ValidDate(*req.BirthDate) {
		writeFieldError(w, "birth_date", "invalid birth_date format; expected YYYY-MM-DD")
		return
	}
	if req.Gender != nil && *req.Gender != models.GenderMale && *req.Gender != models.GenderFemale {
		writeFieldError(w, "gender", "invalid gender")
		return
	}
	if req.GoalType != nil {
		if _, ok := nutrition.GoalAdvisory(*req.GoalType); !ok {
			writeFieldError(w, "goal_type", "invalid goal_type")
			return
		}
	}

	updated, err := h.api.UpdateProfile(r.Context(), token, upstream.ProfileUpdate{
		CurrentWeightKG: req.CurrentWeightKG,
		BirthDate:       req.BirthDate,
		HeightCM:        req.HeightCM,
		Gender:          req.Gender,
		GoalType:        req.GoalType,
		ActivityLevel:   req.ActivityLevel,
	})
	if err != nil {
		writeUpstreamError(w, h.logger, "could not save profile", err)
		return
	}

	userKey := session.UserKey(token)
	h.cache.Invalidate(cache.Key(userKey, "user"))
	h.cache.Invalidate(cache.Key(userKey, "dashboard"))
	h.cache.Set(cache.Key(userKey, "user"), updated)

	res := gate.Evaluate(r.Context(), updated, nutrition.Today(h.now()), func(ctx context.Context, date string) (int, error) {
		items, err := h.api.ListWeights(ctx, token, date, date, 1)
		return len(items), err
	})

	advisory, _ := nutrition.GoalAdvisory(updated.GoalType)
	writeJSON(w, http.StatusOK, profileResponse{
		User:                  updated,
		State:                 res.State.String(),
		ShowDailyCheckinModal: res.State == gate.NeedsDailyCheckin,
		ScrollLock:            gate.ScrollLock(res.State),
		GoalAdvisory:          advisory,
	})
}
