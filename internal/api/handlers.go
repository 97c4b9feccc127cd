// Package api implements the opsdesk JSON API using chi.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/veldt/opsdesk/internal/apperr"
	"github.com/veldt/opsdesk/internal/auth"
	"github.com/veldt/opsdesk/internal/recordservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc      *recordservice.Service
	gate     *auth.Gate
	sessions *auth.Sessions
}

// NewHandler creates a new Handler.
func NewHandler(svc *recordservice.Service, gate *auth.Gate, sessions *auth.Sessions) *Handler {
	return &Handler{svc: svc, gate: gate, sessions: sessions}
}

// recordID parses the {id} URL segment.
func recordID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// decodeBody decodes a JSON request body with a size cap.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case apperr.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// Login handles POST /login. A correct master password starts a session and
// sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !h.gate.Authenticate(req.Password) {
		writeJSON(w, http.StatusUnauthorized, errorBody("invalid password"))
		return
	}
	token := h.sessions.Start()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Logout handles POST /logout: ends the session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(sessionToken(r))
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// parseRFC3339 parses an optional timestamp, returning the zero time for "".
func parseRFC3339(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}
