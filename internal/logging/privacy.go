// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package logging

import "strings"

// MaskID hides the middle of an identifier or token, keeping the first and
// last four characters.
// Example: "3f2a9c1e-77b0-4d8e-a1c2-5b9e0f6d7a11" -> "3f2a...7a11"
func MaskID(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= 12 {
		return "***"
	}
	return id[:4] + "..." + id[len(id)-4:]
}

var sensitiveErrorTerms = []string{
	"password",
	"secret",
	"token",
	"bearer",
	"authorization",
	"cookie",
}

// SanitizeError returns an error message safe to return to API clients.
func SanitizeError(msg string) string {
	lower := strings.ToLower(msg)
	for _, term := range sensitiveErrorTerms {
		if strings.Contains(lower, term) {
			return "authentication error"
		}
	}
	return truncate(msg, 200)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
