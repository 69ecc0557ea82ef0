// Package router sets up all HTTP routes and middleware chains for the
// catalog service. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sarren/internal/handlers"
	"sarren/internal/middleware"
	"sarren/internal/session"
)

// Login attempts allowed per client IP and window.
const (
	loginLimit  = 10
	loginWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. Forwarding headers are honoured only from
// trustedProxies. The returned stop function ends the login rate limiter's
// cleanup goroutine.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, trustedProxies []netip.Prefix) (chi.Router, func()) {
	r := chi.NewRouter()
	limiter := middleware.NewRateLimiter(loginLimit, loginWindow)

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.RealIP(trustedProxies))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))
	r.Use(middleware.AdminGate(sessionStore))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":"Not found"}`)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`)
	})

	r.Get("/health", healthHandler)

	// Public catalog and contact form.
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", public.Products)
		r.Get("/pdfs", public.PDFs)
		r.Post("/contact", public.Contact)

		// Admin API. The gate has already rejected anonymous callers
		// except on login and logout.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.With(limiter.Middleware).Post("/login", auth.Login)
			r.Post("/logout", auth.Logout)
			r.Get("/session", auth.Session)

			r.Get("/products", admin.ProductsGet)
			r.Post("/products", admin.ProductsCreate)
			r.Put("/products", admin.ProductsUpdate)
			r.Delete("/products", admin.ProductsDelete)

			r.Get("/pdfs", admin.PDFsGet)
			r.Post("/pdfs", admin.PDFUpload)
			r.Delete("/pdfs", admin.PDFDelete)
		})
	})

	// Admin UI shell; rendering is handled by the frontend.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Get("/", admin.Dashboard)
		r.Get("/*", admin.Dashboard)
	})

	return r, limiter.Stop
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, `{"status":"ok"}`)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
