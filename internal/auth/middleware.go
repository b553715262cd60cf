// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
)

type contextKey string

// ClaimsContextKey holds the validated *Claims in a request context.
const ClaimsContextKey contextKey = "claims"

// TokenHeader is the alternative header carrying a profile token.
const TokenHeader = "X-Profile-Token"

// ProfileFunc extracts the profile ID a request addresses.
type ProfileFunc func(r *http.Request) string

// Middleware enforces profile tokens on profile routes.
type Middleware struct {
	tokens   *TokenManager
	required bool
	profile  ProfileFunc
}

// NewMiddleware creates the middleware. With required false requests pass
// through untouched; tokens may be nil in that case.
func NewMiddleware(tokens *TokenManager, required bool, profile ProfileFunc) *Middleware {
	return &Middleware{tokens: tokens, required: required, profile: profile}
}

// RequireProfileToken rejects requests whose token is missing, invalid or
// issued for a different profile than the one in the route.
func (m *Middleware) RequireProfileToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.required {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.ValidateFor(token, m.profile(r))
		if err != nil {
			logging.Ctx(r.Context()).Warn().Str("error", logging.SanitizeError(err.Error())).Msg("Profile token rejected")
			if errors.Is(err, ErrProfileMismatch) {
				http.Error(w, "Forbidden: token does not match profile", http.StatusForbidden)
				return
			}
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by RequireProfileToken.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return c, ok
}

// extractToken reads a bearer token from Authorization, then X-Profile-Token,
// then the "token" query parameter (used by WebSocket clients).
func extractToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", errors.New("invalid authorization header")
		}
		return parts[1], nil
	}
	if token := r.Header.Get(TokenHeader); token != "" {
		return token, nil
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, nil
	}
	return "", errors.New("missing token")
}

// SecurityHeaders adds the response headers every API response carries.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
