package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"sarren/internal/auth"
	"sarren/internal/middleware"
	"sarren/internal/session"
)

// Auth groups the admin login endpoints.
type Auth struct {
	sessions *session.Store
	checker  *auth.Checker
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, checker *auth.Checker) *Auth {
	return &Auth{sessions: sessions, checker: checker}
}

// loginRequest is the body of POST /api/admin/login. Password is a pointer
// so a missing field can be told apart from a malformed one.
type loginRequest struct {
	Password *string `json:"password"`
	Code     string  `json:"code"`
}

// Login checks the shared admin password (and one-time code when enabled)
// and issues the session cookie.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	password := ""
	if req.Password != nil {
		password = *req.Password
	}
	if err := a.checker.Check(password, req.Code); err != nil {
		if errors.Is(err, auth.ErrInvalidCode) {
			slog.Warn("admin login rejected", "reason", "code", "remote", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "Invalid code")
			return
		}
		slog.Warn("admin login rejected", "reason", "password", "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	if err := a.sessions.Create(w); err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	slog.Info("admin logged in", "remote", r.RemoteAddr)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Logout expires the session cookie. It succeeds with or without a session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Session reports the caller's session. The gate has already rejected
// anonymous callers.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"isLoggedIn": sess != nil && sess.IsLoggedIn})
}
