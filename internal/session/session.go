// Package session provides the signed admin session cookie. The session
// lives entirely in the cookie as an HS256 JWT, so there is no server-side
// session table; a cookie that fails verification is treated as absent.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "sarren-admin"

	// DefaultTTL is how long a session cookie stays valid.
	DefaultTTL = 7 * 24 * time.Hour
)

// Data is the session payload.
type Data struct {
	IsLoggedIn bool      `json:"isLoggedIn"`
	IssuedAt   time.Time `json:"-"`
	ExpiresAt  time.Time `json:"-"`
}

type claims struct {
	IsLoggedIn bool `json:"isLoggedIn"`
	jwt.RegisteredClaims
}

// Store issues and verifies session cookies.
type Store struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewStore creates a session store signing with secret. Secure should be
// true whenever the site is served over TLS.
func NewStore(secret string, secure bool) *Store {
	return &Store{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		secure: secure,
		now:    time.Now,
	}
}

// Create issues a logged-in session cookie on the response.
func (s *Store) Create(w http.ResponseWriter) error {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		IsLoggedIn: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("session sign: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return nil
}

// Get returns the session carried by the request, or nil when there is no
// cookie or it is expired, malformed or signed with another key.
func (s *Store) Get(r *http.Request) *Data {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	var c claims
	_, err = jwt.ParseWithClaims(cookie.Value, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			slog.Debug("session cookie expired")
		} else {
			slog.Debug("session cookie rejected", "error", err)
		}
		return nil
	}

	d := &Data{IsLoggedIn: c.IsLoggedIn, ExpiresAt: c.ExpiresAt.Time}
	if c.IssuedAt != nil {
		d.IssuedAt = c.IssuedAt.Time
	}
	return d
}

// NeedsRefresh reports whether less than half of the session lifetime
// remains.
func (s *Store) NeedsRefresh(d *Data) bool {
	return d.ExpiresAt.Sub(s.now()) < s.ttl/2
}

// Destroy expires the session cookie.
func (s *Store) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
