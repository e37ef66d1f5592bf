package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"sehatin/internal/cache"
	"sehatin/internal/middleware"
	"sehatin/internal/models"
	"sehatin/internal/nutrition"
	"sehatin/internal/session"
	"sehatin/internal/upstream"
)

// DashboardHandler turns the server's daily aggregate into the dashboard view
// model. Three states stay distinguishable for the UI: an error response
// (fetch failed), has_summary=false (no data yet, zeroed figures), and a
// normal payload.
type DashboardHandler struct {
	api    *upstream.Client
	cache  *cache.Store
	logger *zap.Logger
}

func NewDashboardHandler(api *upstream.Client, store *cache.Store, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{api: api, cache: store, logger: logger}
}

type dashboardUser struct {
	Name            string  `json:"name"`
	HeightCM        float64 `json:"height_cm"`
	CurrentWeightKG float64 `json:"current_weight_kg"`
	TargetWeightKG  float64 `json:"target_weight_kg"`
}

type dashboardStreak struct {
	CurrentStreakDays int `json:"current_streak_days"`
	LoggedDots        int `json:"logged_dots"`
	PendingDots       int `json:"pending_dots"`
}

type dashboardResponse struct {
	HasSummary         bool                 `json:"has_summary"`
	User               dashboardUser        `json:"user"`
	TargetCaloriesKcal float64              `json:"target_calories_kcal"`
	RemainingCalories  float64              `json:"remaining_calories"`
	ProgressPercent    float64              `json:"progress_percent"`
	NutriGrade         string               `json:"nutri_grade,omitempty"`
	Macros             []nutrition.MacroRow `json:"macros"`
	Streak             dashboardStreak      `json:"streak"`
	Meals              []models.Meal        `json:"meals"`
	CanGenerateMenu    bool                 `json:"can_generate_menu"`
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	data, err := fetchDashboard(r.Context(), h.api, h.cache, token)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to fetch daily data", err)
		return
	}

	summary := data.TodaySummary
	resp := dashboardResponse{
		HasSummary: summary != nil,
		User: dashboardUser{
			Name:            data.User.Name,
			HeightCM:        data.User.HeightCM,
			CurrentWeightKG: data.User.CurrentWeightKG,
			TargetWeightKG:  data.User.TargetWeightKG,
		},
		RemainingCalories: nutrition.RemainingCalories(summary),
		ProgressPercent:   nutrition.ProgressPercent(summary),
		Macros:            nutrition.MacroRows(summary),
		Meals:             data.Meals,
		CanGenerateMenu:   nutrition.CanGenerateMenu(summary),
	}
	if summary != nil {
		resp.TargetCaloriesKcal = summary.TargetCaloriesKcal
		resp.NutriGrade = summary.NutriGrade
	}
	if data.Streak != nil {
		logged, pending := nutrition.WeekDots(data.Streak.ThisWeekLoggedDays)
		resp.Streak = dashboardStreak{
			CurrentStreakDays: data.Streak.CurrentStreakDays,
			LoggedDots:        logged,
			PendingDots:       pending,
		}
	} else {
		_, pending := nutrition.WeekDots(0)
		resp.Streak = dashboardStreak{PendingDots: pending}
	}

	writeJSON(w, http.StatusOK, resp)
}

// fetchDashboard reads the daily aggregate through the shared cache. Weight
// check-ins and profile saves invalidate it so the next read is fresh.
func fetchDashboard(ctx context.Context, api *upstream.Client, store *cache.Store, token string) (*upstream.DashboardData, error) {
	key := cache.Key(session.UserKey(token), "dashboard")
	if v, ok := store.Get(key); ok {
		if d, ok := v.(*upstream.DashboardData); ok {
			return d, nil
		}
	}
	d, err := api.Dashboard(ctx, token)
	if err != nil {
		return nil, err
	}
	store.Set(key, d)
	return d, nil
}
