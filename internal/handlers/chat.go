package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"sehatin/internal/cache"
	"sehatin/internal/middleware"
	"sehatin/internal/models"
	"sehatin/internal/session"
	"sehatin/internal/upstream"
)

const chatSessionTitle = "Chat Alvi"

// ChatHandler fronts the AI diet assistant. The chat session id lives in the
// persisted session store with a 5-minute sliding expiry; an expired session
// is silently replaced by a fresh upstream one.
type ChatHandler struct {
	api      *upstream.Client
	cache    *cache.Store
	sessions *session.Store
	logger   *zap.Logger
}

func NewChatHandler(api *upstream.Client, store *cache.Store, sessions *session.Store, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{api: api, cache: store, sessions: sessions, logger: logger}
}

func (h *ChatHandler) ensureSession(ctx context.Context, token string) (string, error) {
	userKey := session.UserKey(token)
	if id, ok, err := h.sessions.Get(userKey); err != nil {
		return "", err
	} else if ok {
		return id, nil
	}
	id, err := h.api.StartChatSession(ctx, token, chatSessionTitle)
	if err != nil {
		return "", err
	}
	if err := h.sessions.Put(userKey, id); err != nil {
		return "", err
	}
	return id, nil
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	sessionID, err := h.ensureSession(r.Context(), token)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to start chat session", err)
		return
	}
	messages, err := h.api.ListChatMessages(r.Context(), token, sessionID)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to fetch chat messages", err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": sessionID, "messages": messages})
}

type chatSendRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	var req chatSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeFieldError(w, "message", "Pesan wajib diisi")
		return
	}

	sessionID, err := h.ensureSession(r.Context(), token)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to start chat session", err)
		return
	}

	// The assistant answers against the user's daily budget. The context is
	// auxiliary: a failed dashboard read degrades to a zero target rather
	// than blocking the message.
	var target float64
	if data, err := fetchDashboard(r.Context(), h.api, h.cache, token); err == nil && data.TodaySummary != nil {
		target = data.TodaySummary.TargetCaloriesKcal
	}

	if err := h.api.SendChatMessage(r.Context(), token, sessionID, req.Message, upstream.ChatContext{
		DailyCaloriesTarget: target,
	}); err != nil {
		writeUpstreamError(w, h.logger, "failed to send chat message", err)
		return
	}

	// Successful activity slides the session expiry window.
	if err := h.sessions.Put(session.UserKey(token), sessionID); err != nil {
		h.logger.Warn("failed to refresh chat session expiry", zap.Error(err))
	}

	messages, err := h.api.ListChatMessages(r.Context(), token, sessionID)
	if err != nil {
		writeUpstreamError(w, h.logger, "failed to fetch chat messages", err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": sessionID, "messages": messages})
}
