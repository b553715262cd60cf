// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sanchomuzax/hirstart-recosys/internal/events"
	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/validation"
)

// ProfileCreated is returned by CreateProfile.
type ProfileCreated struct {
	ProfileID string `json:"profile_id"`
	Token     string `json:"token,omitempty"`
}

func profileParam(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// requireProfileID rejects malformed profile IDs before any handler or
// token check sees them.
func requireProfileID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validation.ValidProfileID(profileParam(r)) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid profile ID", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateProfile mints an anonymous profile ID, with a token when tokens
// are enabled. Nothing is stored until the first click.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	out := ProfileCreated{ProfileID: uuid.New().String()}

	if h.tokens != nil {
		token, err := h.tokens.Issue(out.ProfileID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue profile token", err)
			return
		}
		out.Token = token
	}

	logging.Ctx(r.Context()).Info().Str("profile", logging.MaskID(out.ProfileID)).Msg("Profile created")
	respondSuccess(w, http.StatusCreated, out, start)
}

// ResetProfile deletes every stored value of the profile.
func (h *Handler) ResetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	profile := profileParam(r)

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	unlock := h.locker.Lock(profile)
	err := h.store.Delete(ctx, profile)
	unlock()
	if err != nil {
		respondStoreError(w, "reset profile", err)
		return
	}

	h.notify(ctx, events.NewEvent(events.TypeProfileReset, profile))
	logging.Ctx(ctx).Info().Str("profile", logging.MaskID(profile)).Msg("Profile reset")
	respondSuccess(w, http.StatusOK, map[string]string{"profile_id": profile}, start)
}
