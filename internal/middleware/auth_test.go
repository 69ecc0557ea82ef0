package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sarren/internal/session"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-that-is-long-enough-32b"

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

// loginCookie issues a fresh session cookie from store.
func loginCookie(t *testing.T, store *session.Store) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	if err := store.Create(rr); err != nil {
		t.Fatalf("Create: %v", err)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	return cookies[0]
}

// gated wires LoadSession and AdminGate in front of next.
func gated(store *session.Store, next http.Handler) http.Handler {
	return LoadSession(store)(AdminGate(store)(next))
}

// ---------- SessionFromCtx ----------

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := &session.Data{IsLoggedIn: true}
		ctx := context.WithValue(context.Background(), SessionKey, sess)

		if got := SessionFromCtx(ctx); got != sess {
			t.Errorf("got %v, want %v", got, sess)
		}
	})

	t.Run("returns nil when absent", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not a session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})
}

// ---------- LoadSession ----------

func TestLoadSession(t *testing.T) {
	store := session.NewStore(testSecret, false)

	var seen *session.Data
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromCtx(r.Context())
	})
	h := LoadSession(store)(next)

	t.Run("valid cookie", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(loginCookie(t, store))
		h.ServeHTTP(httptest.NewRecorder(), req)
		if seen == nil || !seen.IsLoggedIn {
			t.Errorf("expected logged-in session, got %+v", seen)
		}
	})

	t.Run("no cookie", func(t *testing.T) {
		seen = &session.Data{}
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if seen != nil {
			t.Errorf("expected nil session, got %+v", seen)
		}
	})

	t.Run("cookie signed with another secret", func(t *testing.T) {
		seen = &session.Data{}
		other := session.NewStore("another-secret-that-is-long-enough", false)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(loginCookie(t, other))
		h.ServeHTTP(httptest.NewRecorder(), req)
		if seen != nil {
			t.Errorf("expected nil session, got %+v", seen)
		}
	})
}

// ---------- AdminGate ----------

func TestAdminGateAnonymous(t *testing.T) {
	store := session.NewStore(testSecret, false)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantCalled bool
		wantLoc    string
	}{
		{"public catalog", http.MethodGet, "/api/products", http.StatusOK, true, ""},
		{"contact form", http.MethodPost, "/api/contact", http.StatusOK, true, ""},
		{"login endpoint", http.MethodPost, "/api/admin/login", http.StatusOK, true, ""},
		{"logout endpoint", http.MethodPost, "/api/admin/logout", http.StatusOK, true, ""},
		{"login page", http.MethodGet, "/admin", http.StatusOK, true, ""},
		{"login page trailing slash", http.MethodGet, "/admin/", http.StatusOK, true, ""},
		{"login page alias", http.MethodGet, "/admin/login", http.StatusOK, true, ""},
		{"similar prefix is not gated", http.MethodGet, "/administrator", http.StatusOK, true, ""},
		{"login with GET is gated", http.MethodGet, "/api/admin/login", http.StatusUnauthorized, false, ""},
		{"admin products api", http.MethodGet, "/api/admin/products", http.StatusUnauthorized, false, ""},
		{"admin pdfs api", http.MethodDelete, "/api/admin/pdfs", http.StatusUnauthorized, false, ""},
		{"session probe", http.MethodGet, "/api/admin/session", http.StatusUnauthorized, false, ""},
		{"dashboard page", http.MethodGet, "/admin/dashboard", http.StatusSeeOther, false, LoginPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			gated(store, next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if *called != tt.wantCalled {
				t.Errorf("next called: got %v, want %v", *called, tt.wantCalled)
			}
			if tt.wantLoc != "" && rr.Header().Get("Location") != tt.wantLoc {
				t.Errorf("Location: got %q, want %q", rr.Header().Get("Location"), tt.wantLoc)
			}
		})
	}
}

func TestAdminGateUnauthorizedBody(t *testing.T) {
	store := session.NewStore(testSecret, false)
	next, _ := okHandler()

	rr := httptest.NewRecorder()
	gated(store, next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/products", nil))

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Unauthorized" {
		t.Errorf("error: got %q, want Unauthorized", body["error"])
	}
}

func TestAdminGateLoggedIn(t *testing.T) {
	store := session.NewStore(testSecret, false)
	cookie := loginCookie(t, store)

	for _, path := range []string{"/api/admin/products", "/api/admin/pdfs", "/admin/dashboard"} {
		t.Run(path, func(t *testing.T) {
			next, called := okHandler()
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.AddCookie(cookie)
			rr := httptest.NewRecorder()
			gated(store, next).ServeHTTP(rr, req)

			if !*called {
				t.Error("next handler should be called")
			}
			if rr.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rr.Code)
			}
			if len(rr.Result().Cookies()) != 0 {
				t.Error("fresh session should not be re-issued")
			}
		})
	}
}

func TestAdminGateRefreshesAgingSession(t *testing.T) {
	store := session.NewStore(testSecret, false)

	// A session issued six days ago with one day left.
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"isLoggedIn": true,
		"iat":        now.Add(-6 * 24 * time.Hour).Unix(),
		"exp":        now.Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	next, called := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: signed})
	rr := httptest.NewRecorder()
	gated(store, next).ServeHTTP(rr, req)

	if !*called {
		t.Fatal("next handler should be called")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.CookieName {
		t.Fatalf("expected refreshed session cookie, got %v", cookies)
	}
	if cookies[0].Value == signed {
		t.Error("refreshed cookie should carry a new token")
	}
}
