// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package api

import (
	"net/http"
	"time"

	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/render"
	ws "github.com/sanchomuzax/hirstart-recosys/internal/websocket"
)

// Stats returns the profile's statistics summary.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	summary, err := h.summary(ctx, profileParam(r))
	if err != nil {
		respondStoreError(w, "load statistics", err)
		return
	}
	respondSuccess(w, http.StatusOK, summary, start)
}

// Panel returns the info panel as an HTML fragment.
func (h *Handler) Panel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	summary, err := h.summary(ctx, profileParam(r))
	if err != nil {
		respondStoreError(w, "load statistics", err)
		return
	}
	html, err := render.Panel(summary)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render panel", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		logging.Error().Err(err).Msg("Failed to write panel")
	}
}

// WebSocket upgrades the request and subscribes it to the profile.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn, profileParam(r))
	h.wsHub.Register <- client
	client.Start()
}
