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
	// nonWord matches anything that isn't a word character or whitespace.
	nonWord = regexp.MustCompile(`[^a-z0-9_\s]`)
	// whitespace matches one or more consecutive whitespace characters.
	whitespace = regexp.MustCompile(`\s+`)
)

// Generate creates a URL-friendly slug from the given string.
// Non-word characters are stripped and runs of whitespace collapse into a
// single hyphen. Example: "Tech & Life" → "tech-life"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonWord.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
