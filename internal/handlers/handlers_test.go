package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"sehatin/internal/cache"
	"sehatin/internal/middleware"
	"sehatin/internal/models"
	"sehatin/internal/upstream"
)

// fakeAPI records every upstream request and delegates to a per-test handler.
type fakeAPI struct {
	mu       sync.Mutex
	requests []string
	handler  http.HandlerFunc
	srv      *httptest.Server
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) *fakeAPI {
	t.Helper()
	f := &fakeAPI{handler: handler}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		if f.handler != nil {
			f.handler(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) client() *upstream.Client {
	return upstream.New(f.srv.URL, 2*time.Second)
}

func (f *fakeAPI) calls(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

const testToken = "test-token"

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithToken(req.Context(), testToken))
}

func writeEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func completeUser() models.UserProfile {
	return models.UserProfile{
		ID:              "u1",
		Name:            "Budi",
		GoalType:        models.GoalLose,
		HeightCM:        170,
		CurrentWeightKG: 72.5,
	}
}

func TestAppState_IncompleteProfileShowsProfileModalOnly(t *testing.T) {
	user := completeUser()
	user.GoalType = ""
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			writeEnvelope(w, map[string]any{"user": user})
		default:
			t.Fatalf("unexpected upstream call %s %s", r.Method, r.URL.Path)
		}
	})

	h := NewAppStateHandler(f.client(), cache.New(0), zap.NewNop())
	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/app/state", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["state"] != "needs_profile" {
		t.Fatalf("state %v, want needs_profile", body["state"])
	}
	if body["show_profile_modal"] != true || body["show_daily_checkin_modal"] != false {
		t.Fatalf("modals must be mutually exclusive with profile first: %v", body)
	}
	if body["scroll_lock"] != true {
		t.Fatalf("expected scroll lock while a modal is due")
	}
	if f.calls("GET /weights") != 0 {
		t.Fatalf("daily probe fired before profile completeness was observed")
	}
}

func TestAppState_NoTodayLogShowsDailyCheckin(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			writeEnvelope(w, map[string]any{"user": completeUser()})
		case "/weights":
			if r.URL.Query().Get("date_from") != r.URL.Query().Get("date_to") {
				t.Fatalf("gate probe must use a single-day range, got %s", r.URL.RawQuery)
			}
			if r.URL.Query().Get("limit") != "1" {
				t.Fatalf("gate probe must use limit=1, got %s", r.URL.RawQuery)
			}
			writeEnvelope(w, map[string]any{"items": []models.WeightLogEntry{}})
		default:
			t.Fatalf("unexpected upstream call %s %s", r.Method, r.URL.Path)
		}
	})

	h := NewAppStateHandler(f.client(), cache.New(0), zap.NewNop())
	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/app/state", ""))

	body := decodeBody(t, rec)
	if body["state"] != "needs_daily_checkin" {
		t.Fatalf("state %v, want needs_daily_checkin", body["state"])
	}
	if body["show_daily_checkin_modal"] != true || body["show_profile_modal"] != false {
		t.Fatalf("unexpected modal flags: %v", body)
	}
	if body["current_weight_kg"] != 72.5 {
		t.Fatalf("daily modal prefill weight %v, want 72.5", body["current_weight_kg"])
	}
}

func TestAppState_ExistingTodayLogIsSatisfied(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/me":
			writeEnvelope(w, map[string]any{"user": completeUser()})
		case "/weights":
			writeEnvelope(w, map[string]any{"items": []models.WeightLogEntry{{WeightKG: 72, LogDate: "2026-08-28"}}})
		default:
			t.Fatalf("unexpected upstream call %s %s", r.Method, r.URL.Path)
		}
	})

	h := NewAppStateHandler(f.client(), cache.New(0), zap.NewNop())
	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/app/state", ""))

	body := decodeBody(t, rec)
	if body["state"] != "satisfied" {
		t.Fatalf("state %v, want satisfied", body["state"])
	}
	if body["scroll_lock"] != false || body["checked_in_today"] != true {
		t.Fatalf("unexpected satisfied payload: %v", body)
	}
}

func TestDashboard_ScenarioValues(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard" {
			t.Fatalf("unexpected upstream call %s %s", r.Method, r.URL.Path)
		}
		writeEnvelope(w, map[string]any{
			"user": completeUser(),
			"today_summary": models.DailyNutritionSummary{
				TargetCaloriesKcal: 2000,
				TotalCaloriesKcal:  1400,
				CaloriesRemaining:  600,
				CaloriesPercentage: 70,
				TotalProteinG:      60,
				TotalFatG:          40,
			},
			"streak": models.Streak{CurrentStreakDays: 4, ThisWeekLoggedDays: 9},
		})
	})

	h := NewDashboardHandler(f.client(), cache.New(0), zap.NewNop())
	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/app/dashboard", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["remaining_calories"] != 600.0 {
		t.Fatalf("remaining %v, want 600", body["remaining_calories"])
	}
	if body["progress_percent"] != 70.0 {
		t.Fatalf("progress %v, want 70", body["progress_percent"])
	}
	macros := body["macros"].([]any)
	if len(macros) != 3 {
		t.Fatalf("expected 3 macro rows, got %d", len(macros))
	}
	carbs := macros[1].(map[string]any)
	if carbs["label"] != "Karbo" || carbs["grams"] != 0.0 {
		t.Fatalf("missing macro must render as 0 g: %v", carbs)
	}
	streak := body["streak"].(map[string]any)
	if streak["logged_dots"] != 7.0 || streak["pending_dots"] != 0.0 {
		t.Fatalf("out-of-range week days must clamp: %v", streak)
	}
	if body["can_generate_menu"] != true {
		t.Fatalf("expected menu generation with budget left")
	}
}

func TestDashboard_FetchFailureIsDistinctError(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	h := NewDashboardHandler(f.client(), cache.New(0), zap.NewNop())
	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/app/dashboard", ""))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "failed to fetch daily data" {
		t.Fatalf("error %v, want the distinct daily-data message", body["error"])
	}
}

func TestDashboard_AbsentSummaryIsZeroedNotError(t *testing.T) {
	f := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]any{"user": completeUser()})
	})

	h := NewDashboardHandler(f.client(), cache.New(0), zap.NewNop())
	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/app/dashboard", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["has_summary"] != false {
		t.Fatalf("expected has_summary=false")
	}
	if body["remaining_calories"] != 0.0 || body["progress_percent"] != 0.0 {
		t.Fatalf("absent summary must zero the figures: %v", body)
	}
	if len(body["macros"].([]any)) != 3 {
		t.Fatalf("macro rows must stay present with zero grams")
	}
}
