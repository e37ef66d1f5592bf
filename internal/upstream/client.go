// Package upstream is the typed client for the remote Sehatin REST API. All
// business logic (calorie targets, BMI, grades, streaks) lives behind these
// endpoints; this side only ships requests and decodes envelopes.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sehatin/internal/models"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// StatusError is a non-2xx upstream response. Handlers use the code to decide
// whether to pass the status through (auth problems) or report a bad gateway.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream API error %d: %s", e.StatusCode, e.Body)
}

func (c *Client) do(ctx context.Context, method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Sehatin API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return nil
}

type DashboardData struct {
	User         models.UserProfile            `json:"user"`
	TodaySummary *models.DailyNutritionSummary `json:"today_summary"`
	Meals        []models.Meal                 `json:"meals"`
	Streak       *models.Streak                `json:"streak"`
}

func (c *Client) Dashboard(ctx context.Context, token string) (*DashboardData, error) {
	var env struct {
		Data DashboardData `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/dashboard", token, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	var env struct {
		Data struct {
			User models.UserProfile `json:"user"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data.User, nil
}

// ProfileUpdate carries the partial profile fields the completion form edits.
// Nil fields are omitted from the request.
type ProfileUpdate struct {
	CurrentWeightKG *float64         `json:"current_weight_kg,omitempty"`
	BirthDate       *string          `json:"birth_date,omitempty"` // YYYY-MM-DD
	HeightCM        *float64         `json:"height_cm,omitempty"`
	Gender          *models.Gender   `json:"gender,omitempty"`
	GoalType        *models.GoalType `json:"goal_type,omitempty"`
	ActivityLevel   *string          `json:"activity_level,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*models.UserProfile, error) {
	var env struct {
		Data struct {
			User models.UserProfile `json:"user"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/auth/profile", token, update, &env); err != nil {
		return nil, err
	}
	return &env.Data.User, nil
}

// ListWeights queries weight logs in [dateFrom, dateTo]. The gate uses a
// single-day window with limit 1; history views use wider ranges.
func (c *Client) ListWeights(ctx context.Context, token, dateFrom, dateTo string, limit int) ([]models.WeightLogEntry, error) {
	q := url.Values{}
	q.Set("period", "daily")
	q.Set("date_from", dateFrom)
	q.Set("date_to", dateTo)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var env struct {
		Data struct {
			Items []models.WeightLogEntry `json:"items"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/weights?"+q.Encode(), token, nil, &env); err != nil {
		return nil, err
	}
	return env.Data.Items, nil
}

func (c *Client) CreateWeight(ctx context.Context, token string, weightKG float64, logDate string) (*models.WeightLogEntry, error) {
	payload := map[string]any{
		"weight_kg": weightKG,
		"log_date":  logDate,
	}
	var env struct {
		Data models.WeightLogEntry `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/weights", token, payload, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) WeightChart(ctx context.Context, token, period, startDate, endDate string) ([]models.WeightChartPoint, error) {
	q := url.Values{}
	q.Set("period", period)
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	var env struct {
		Data struct {
			ChartData []models.WeightChartPoint `json:"chart_data"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/weights/chart?"+q.Encode(), token, nil, &env); err != nil {
		return nil, err
	}
	return env.Data.ChartData, nil
}

func (c *Client) NutritionChart(ctx context.Context, token, period, startDate, endDate string) ([]models.CalorieChartPoint, error) {
	q := url.Values{}
	q.Set("period", period)
	q.Set("type", "calories")
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)
	var env struct {
		Data struct {
			ChartData []models.CalorieChartPoint `json:"chart_data"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/nutrition/chart?"+q.Encode(), token, nil, &env); err != nil {
		return nil, err
	}
	return env.Data.ChartData, nil
}

func (c *Client) StartChatSession(ctx context.Context, token, title string) (string, error) {
	var env struct {
		Data struct {
			ChatSession struct {
				ID string `json:"id"`
			} `json:"chat_session"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/chat/sessions", token, map[string]string{"title": title}, &env); err != nil {
		return "", err
	}
	return env.Data.ChatSession.ID, nil
}

func (c *Client) ListChatMessages(ctx context.Context, token, sessionID string) ([]models.ChatMessage, error) {
	var env struct {
		Data struct {
			ChatSession struct {
				Messages []models.ChatMessage `json:"messages"`
			} `json:"chat_session"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/chat/sessions/"+url.PathEscape(sessionID)+"/messages", token, nil, &env); err != nil {
		return nil, err
	}
	return env.Data.ChatSession.Messages, nil
}

// ChatContext accompanies each outgoing chat message so the assistant answers
// against the user's actual daily budget.
type ChatContext struct {
	DailyCaloriesTarget float64  `json:"daily_calories_target"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
}

func (c *Client) SendChatMessage(ctx context.Context, token, sessionID, message string, chatCtx ChatContext) error {
	if chatCtx.DietaryRestrictions == nil {
		chatCtx.DietaryRestrictions = []string{}
	}
	payload := map[string]any{
		"message": message,
		"context": chatCtx,
	}
	return c.do(ctx, http.MethodPost, "/chat/sessions/"+url.PathEscape(sessionID)+"/messages", token, payload, nil)
}
