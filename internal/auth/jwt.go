// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sanchomuzax/hirstart-recosys/internal/config"
)

const tokenIssuer = "recosys"

// ErrProfileMismatch is returned when a valid token belongs to another profile.
var ErrProfileMismatch = errors.New("token does not match profile")

// Claims are the claims of a profile token. Subject holds the profile ID.
type Claims struct {
	jwt.RegisteredClaims
}

// Profile returns the profile ID the token was issued for.
func (c *Claims) Profile() string {
	return c.Subject
}

// TokenManager creates and validates profile tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager from the security configuration.
//
// Example:
//
//	tokens, err := auth.NewTokenManager(&cfg.Security)
//	if err != nil {
//	    return fmt.Errorf("token manager: %w", err)
//	}
func NewTokenManager(cfg *config.SecurityConfig) (*TokenManager, error) {
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required but was empty")
	}
	return &TokenManager{
		secret: []byte(cfg.TokenSecret),
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}, nil
}

// Issue signs a token for profile.
func (m *TokenManager) Issue(profile string) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   profile,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature, algorithm, issuer and expiry of
// tokenString and returns its claims.
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// ValidateFor validates tokenString and checks it was issued for profile.
func (m *TokenManager) ValidateFor(tokenString, profile string) (*Claims, error) {
	claims, err := m.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Profile() != profile {
		return nil, ErrProfileMismatch
	}
	return claims, nil
}
