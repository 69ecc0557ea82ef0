// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"sarren/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// LoginPath is where unauthenticated admin UI requests are sent.
const LoginPath = "/admin"

// publicAdminRoutes are reachable without a session: the login and logout
// endpoints and the login page itself.
var publicAdminRoutes = map[string]string{
	"/api/admin/login":  http.MethodPost,
	"/api/admin/logout": http.MethodPost,
	"/admin":            "",
	"/admin/login":      "",
}

// LoadSession verifies the session cookie and stores a logged-in session
// in the request context. Downstream handlers can access it via
// SessionFromCtx(). This middleware does NOT enforce authentication.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if data := store.Get(r); data != nil && data.IsLoggedIn {
				r = r.WithContext(context.WithValue(r.Context(), SessionKey, data))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminGate guards /admin and /api/admin. Denied API requests get a 401
// JSON body; denied UI requests are redirected to the login page. Sessions
// past half their lifetime get a fresh cookie. Must be applied after
// LoadSession.
func AdminGate(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isGated(r.URL.Path) || isPublicAdminRoute(r) {
				next.ServeHTTP(w, r)
				return
			}

			sess := SessionFromCtx(r.Context())
			if sess == nil {
				if isAPI(r.URL.Path) {
					writeError(w, http.StatusUnauthorized, "Unauthorized")
					return
				}
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if store.NeedsRefresh(sess) {
				if err := store.Create(w); err != nil {
					slog.Warn("session refresh failed", "error", err)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (user is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

func isGated(path string) bool {
	return hasSegmentPrefix(path, "/admin") || hasSegmentPrefix(path, "/api/admin")
}

func isAPI(path string) bool {
	return hasSegmentPrefix(path, "/api")
}

func isPublicAdminRoute(r *http.Request) bool {
	method, ok := publicAdminRoutes[strings.TrimSuffix(r.URL.Path, "/")]
	return ok && (method == "" || method == r.Method)
}

// hasSegmentPrefix reports whether path is prefix or lies beneath it, so
// "/administrator" does not match "/admin".
func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
