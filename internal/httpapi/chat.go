package httpapi

import (
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"campus-lostfound/internal/llm"
	"campus-lostfound/internal/relay"
)

// ChatHandler gives HTTP clients their own chat sessions on the shared relay.
type ChatHandler struct {
	relay *relay.Relay

	mu       sync.RWMutex
	sessions map[string]struct{}
}

func NewChatHandler(rl *relay.Relay) *ChatHandler {
	return &ChatHandler{relay: rl, sessions: make(map[string]struct{})}
}

func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/sessions", h.handleCreateSession)
	r.Post("/chat/sessions/{sessionID}/messages", h.handleSend)
	r.Get("/chat/sessions/{sessionID}/messages", h.handleTranscript)
	r.Delete("/chat/sessions/{sessionID}/messages", h.handleClear)
}

type sendResponse struct {
	Reply   string        `json:"reply"`
	History []llm.Message `json:"history"`
}

func (h *ChatHandler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	h.mu.Lock()
	h.sessions[id] = struct{}{}
	h.mu.Unlock()
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":            id,
		"greeting":      relay.Greeting,
		"ai_configured": h.relay.Configured(),
	})
}

func (h *ChatHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}
	var payload struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.relay.SendTurn(r.Context(), key, payload.Content)
	if errors.Is(err, relay.ErrEmptyMessage) {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sendResponse{Reply: reply, History: h.transcript(key)})
}

func (h *ChatHandler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.transcript(key))
}

func (h *ChatHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}
	h.relay.Clear(key)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) transcript(key string) []llm.Message {
	msgs := h.relay.Transcript(key)
	if msgs == nil {
		msgs = []llm.Message{}
	}
	return msgs
}

func (h *ChatHandler) sessionKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "sessionID")
	h.mu.RLock()
	_, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		respondError(w, http.StatusNotFound, "session not found")
		return "", false
	}
	return "http:" + id, true
}
