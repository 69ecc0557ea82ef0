// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches a run of anything that isn't a lowercase ASCII
	// letter or digit. Each run becomes a single hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

	// valid matches a well-formed slug: hyphen-separated groups, no leading,
	// trailing or doubled hyphens.
	valid = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Resins & Polymers" → "resins-polymers"
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return valid.MatchString(s)
}
