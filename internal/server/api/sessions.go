package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/handsign/internal/store"
)

// Limits for GET /api/sessions.
const (
	DefaultSessionLimit = 20
	MaxSessionLimit     = 500
)

// SessionsHandler serves the session audit history.
type SessionsHandler struct {
	store *store.Store
}

// NewSessionsHandler creates a new SessionsHandler with the given store.
func NewSessionsHandler(s *store.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

type sessionResponse struct {
	ID          string  `json:"id"`
	RemoteAddr  string  `json:"remote_addr"`
	StartedAt   string  `json:"started_at"`
	EndedAt     string  `json:"ended_at"`
	DurationSec float64 `json:"duration_sec"`
	Messages    int64   `json:"messages"`
	Predictions int64   `json:"predictions"`
	Failures    int64   `json:"failures"`
	CloseReason string  `json:"close_reason"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
	Count    int               `json:"count"`
}

func toSessionResponse(s *store.Session) sessionResponse {
	return sessionResponse{
		ID:          s.ID,
		RemoteAddr:  s.RemoteAddr,
		StartedAt:   s.StartedAt.Format(time.RFC3339),
		EndedAt:     s.EndedAt.Format(time.RFC3339),
		DurationSec: s.EndedAt.Sub(s.StartedAt).Seconds(),
		Messages:    s.Messages,
		Predictions: s.Predictions,
		Failures:    s.Failures,
		CloseReason: s.CloseReason,
	}
}

// ServeHTTP handles GET /api/sessions?limit=N.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := DefaultSessionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxSessionLimit)
	}

	sessions, err := h.store.Sessions().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
		Count:    len(sessions),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}
