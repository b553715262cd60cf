// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sanchomuzax/hirstart-recosys/internal/clicklog"
	"github.com/sanchomuzax/hirstart-recosys/internal/events"
	"github.com/sanchomuzax/hirstart-recosys/internal/metrics"
	"github.com/sanchomuzax/hirstart-recosys/internal/models"
	"github.com/sanchomuzax/hirstart-recosys/internal/pagescan"
	"github.com/sanchomuzax/hirstart-recosys/internal/validation"
)

// ClickRecorded is returned by RecordClick.
type ClickRecorded struct {
	pagescan.ResolvedClick

	// Recorded is false for clicks on the portal's own domain.
	Recorded bool `json:"recorded"`

	// ItemMarked is true when the click's item was newly marked seen.
	ItemMarked bool                `json:"item_marked"`
	Event      *models.ClickEvent  `json:"event,omitempty"`
	Evicted    []models.ClickEvent `json:"evicted,omitempty"`
}

// SeenRequest is the body of MarkSeen.
type SeenRequest struct {
	ItemID string `json:"item_id" validate:"required,itemid"`
}

// RecordClick resolves a clicked link and records it. The link's item is
// marked seen first, even when the click itself is not counted.
func (h *Handler) RecordClick(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	profile := profileParam(r)

	var in pagescan.ClickInput
	if !decodeAndValidate(w, r, &in, maxBodyBytes) {
		return
	}

	resolved, err := h.resolver.ResolveClick(in)
	if err != nil {
		if errors.Is(err, pagescan.ErrParse) {
			metrics.RecordParseError("href")
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Click link could not be parsed", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve click", err)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	out := ClickRecorded{ResolvedClick: resolved}

	if resolved.ItemID != "" {
		added, err := h.registry.MarkSeen(ctx, profile, resolved.ItemID)
		if err != nil {
			respondStoreError(w, "mark item seen", err)
			return
		}
		out.ItemMarked = added
		if added {
			ev := events.NewEvent(events.TypeItemSeen, profile)
			ev.ItemID = resolved.ItemID
			h.notify(ctx, ev)
		}
	}

	if resolved.HostSite {
		metrics.RecordIgnoredClick("host_site")
		respondSuccess(w, http.StatusOK, out, start)
		return
	}

	result, err := h.tracker.RecordClick(ctx, profile, clicklog.Click{
		Site:     resolved.Site,
		Category: resolved.Category,
		ItemID:   resolved.ItemID,
	})
	if err != nil {
		if errors.Is(err, clicklog.ErrEmptySite) {
			metrics.RecordIgnoredClick("empty_site")
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Click has no site", nil)
			return
		}
		respondStoreError(w, "record click", err)
		return
	}

	out.Recorded = true
	out.Event = &result.Event
	out.Evicted = result.Evicted

	ev := events.NewEvent(events.TypeClickRecorded, profile)
	ev.Site = result.Event.Site
	ev.Category = result.Event.Category
	ev.ItemID = result.Event.ItemID
	ev.Evicted = len(result.Evicted)
	h.notify(ctx, ev)

	respondSuccess(w, http.StatusCreated, out, start)
}

// MarkSeen adds an item to the profile's seen list.
func (h *Handler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	profile := profileParam(r)

	var req SeenRequest
	if !decodeAndValidate(w, r, &req, maxBodyBytes) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	added, err := h.registry.MarkSeen(ctx, profile, req.ItemID)
	if err != nil {
		respondStoreError(w, "mark item seen", err)
		return
	}
	if added {
		ev := events.NewEvent(events.TypeItemSeen, profile)
		ev.ItemID = req.ItemID
		h.notify(ctx, ev)
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"item_id": req.ItemID,
		"added":   added,
	}, start)
}

// HasSeen reports whether the profile has seen an item.
func (h *Handler) HasSeen(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	profile := profileParam(r)
	itemID := chi.URLParam(r, "item")
	if !validation.ValidItemID(itemID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid item ID", nil)
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	seen, err := h.registry.HasSeen(ctx, profile, itemID)
	if err != nil {
		respondStoreError(w, "read seen items", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"item_id": itemID,
		"seen":    seen,
	}, start)
}
