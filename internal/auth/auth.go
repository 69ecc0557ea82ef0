// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth checks the shared admin credential: a password, either
// plain or bcrypt-hashed, optionally followed by a TOTP code.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidPassword reports a missing or wrong password.
	ErrInvalidPassword = errors.New("auth: invalid password")

	// ErrInvalidCode reports a missing or wrong one-time code.
	ErrInvalidCode = errors.New("auth: invalid one-time code")
)

// Checker verifies admin login attempts.
type Checker struct {
	password   [sha256.Size]byte
	hash       []byte
	totpSecret string
}

// NewChecker builds a checker. A non-empty hash (bcrypt) takes precedence
// over the plain password. A non-empty totpSecret makes a code mandatory.
func NewChecker(password, hash, totpSecret string) *Checker {
	c := &Checker{totpSecret: totpSecret}
	if hash != "" {
		c.hash = []byte(hash)
	} else {
		c.password = sha256.Sum256([]byte(password))
	}
	return c
}

// RequiresCode reports whether a TOTP code is part of the credential.
func (c *Checker) RequiresCode() bool {
	return c.totpSecret != ""
}

// Check returns nil when password (and code, if required) are correct.
func (c *Checker) Check(password, code string) error {
	if password == "" || !c.passwordMatches(password) {
		return ErrInvalidPassword
	}
	if c.totpSecret != "" && (code == "" || !totp.Validate(code, c.totpSecret)) {
		return ErrInvalidCode
	}
	return nil
}

func (c *Checker) passwordMatches(password string) bool {
	if c.hash != nil {
		return bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
	}
	// Comparing digests keeps the comparison length-independent.
	sum := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(sum[:], c.password[:]) == 1
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
