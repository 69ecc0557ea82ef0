package auth

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

func TestChecker_PlainPassword(t *testing.T) {
	c := NewChecker("s3cret", "", "")

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"correct", "s3cret", nil},
		{"wrong", "nope", ErrInvalidPassword},
		{"empty", "", ErrInvalidPassword},
		{"prefix", "s3cre", ErrInvalidPassword},
		{"longer", "s3cret!", ErrInvalidPassword},
		{"case differs", "S3cret", ErrInvalidPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Check(tt.password, ""); !errors.Is(err, tt.wantErr) {
				t.Errorf("Check(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestChecker_EmptyConfiguredPassword(t *testing.T) {
	// An empty configured password must not let an empty attempt in.
	c := NewChecker("", "", "")
	if err := c.Check("", ""); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Check(\"\") = %v, want ErrInvalidPassword", err)
	}
}

func TestChecker_BcryptHash(t *testing.T) {
	hash, err := HashPassword("hashed-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("unexpected hash format %q", hash)
	}

	// The plain password is ignored when a hash is configured.
	c := NewChecker("plain-pass", hash, "")
	if err := c.Check("hashed-pass", ""); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := c.Check("plain-pass", ""); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("plain password accepted with hash configured: %v", err)
	}
}

func TestChecker_TOTP(t *testing.T) {
	enrollment, err := Enroll("Sarren", "admin")
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	c := NewChecker("pw", "", enrollment.Secret)
	if !c.RequiresCode() {
		t.Fatal("RequiresCode should be true")
	}

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}

	if err := c.Check("pw", code); err != nil {
		t.Errorf("valid code rejected: %v", err)
	}
	if err := c.Check("pw", ""); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("missing code: got %v, want ErrInvalidCode", err)
	}
	if err := c.Check("pw", "000000x"); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("bad code: got %v, want ErrInvalidCode", err)
	}
	if err := c.Check("wrong", code); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("wrong password with valid code: got %v, want ErrInvalidPassword", err)
	}
}

func TestChecker_NoTOTP(t *testing.T) {
	if NewChecker("pw", "", "").RequiresCode() {
		t.Error("RequiresCode should be false without a secret")
	}
}

func TestEnroll(t *testing.T) {
	e, err := Enroll("Sarren", "admin@sarren.com")
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if e.Secret == "" {
		t.Error("expected secret")
	}
	if !strings.HasPrefix(e.URL, "otpauth://totp/") {
		t.Errorf("URL: got %q", e.URL)
	}
	if !bytes.HasPrefix(e.QRCode, []byte("\x89PNG")) {
		t.Error("QR code is not a PNG")
	}
}
