// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sanchomuzax/hirstart-recosys/internal/events"
	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/pagescan"
	"github.com/sanchomuzax/hirstart-recosys/internal/recommend"
	"github.com/sanchomuzax/hirstart-recosys/internal/render"
	ws "github.com/sanchomuzax/hirstart-recosys/internal/websocket"
)

// maxPageBytes bounds request bodies that carry a whole portal page.
const maxPageBytes = 4 * 1024 * 1024

// PageRequest names the page to pick from: either its HTML, or a URL on
// the portal domain that the server fetches.
type PageRequest struct {
	URL     string `json:"url,omitempty" validate:"omitempty,url,max=4096"`
	HTML    string `json:"html,omitempty" validate:"required_without=URL"`
	PageURL string `json:"page_url,omitempty" validate:"omitempty,url,max=4096"`
}

// DismissRequest marks ItemID seen before picking again. The page is
// optional; without it only the seen list changes.
type DismissRequest struct {
	ItemID  string `json:"item_id" validate:"required,itemid"`
	URL     string `json:"url,omitempty" validate:"omitempty,url,max=4096"`
	HTML    string `json:"html,omitempty"`
	PageURL string `json:"page_url,omitempty" validate:"omitempty,url,max=4096"`
}

func (d DismissRequest) page() (PageRequest, bool) {
	p := PageRequest{URL: d.URL, HTML: d.HTML, PageURL: d.PageURL}
	return p, p.URL != "" || p.HTML != ""
}

// Recommendation is returned by Recommend and Dismiss.
type Recommendation struct {
	*recommend.Response

	// HighlightHTML is the selected article wrapped in the highlight box,
	// empty when nothing was selected.
	HighlightHTML string `json:"highlight_html,omitempty"`
}

// articles scans or fetches the page named by req.
func (h *Handler) articles(ctx context.Context, req PageRequest) ([]pagescan.Article, error) {
	if req.HTML != "" {
		base := req.PageURL
		if base == "" {
			base = req.URL
		}
		return h.scanner.Scan(strings.NewReader(req.HTML), base)
	}
	if h.fetcher == nil {
		return nil, errFetchDisabled
	}
	return h.fetcher.Fetch(ctx, req.URL)
}

var errFetchDisabled = errors.New("page fetching is disabled")

func respondPageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pagescan.ErrHostNotAllowed):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "URL is not on the portal domain", nil)
	case errors.Is(err, pagescan.ErrParse):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Page could not be parsed", nil)
	case errors.Is(err, errFetchDisabled):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Send the page HTML; fetching is disabled", nil)
	case errors.Is(err, pagescan.ErrFetch):
		respondError(w, http.StatusBadGateway, "FETCH_ERROR", "Portal page could not be fetched", err)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read page", err)
	}
}

// highlight renders the selected article. A rendering failure drops the
// highlight but keeps the selection.
func highlight(ctx context.Context, resp *recommend.Response, articles []pagescan.Article) string {
	if resp.Selected == nil {
		return ""
	}
	pos := resp.Selected.Position
	if pos < 0 || pos >= len(articles) {
		return ""
	}
	out, err := render.Highlight(articles[pos].HTML, resp.Selected.ItemID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("item_id", resp.Selected.ItemID).Msg("Failed to render highlight")
		return ""
	}
	return out
}

// Recommend picks one article from the page for the profile.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	profile := profileParam(r)

	var req PageRequest
	if !decodeAndValidate(w, r, &req, maxPageBytes) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	articles, err := h.articles(ctx, req)
	if err != nil {
		respondPageError(w, err)
		return
	}

	resp, err := h.engine.Recommend(ctx, profile, pagescan.Candidates(articles))
	if err != nil {
		respondStoreError(w, "select recommendation", err)
		return
	}

	respondSuccess(w, http.StatusOK, Recommendation{
		Response:      resp,
		HighlightHTML: highlight(ctx, resp, articles),
	}, start)
}

// Dismiss marks the dismissed item seen and picks a replacement.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	profile := profileParam(r)

	var req DismissRequest
	if !decodeAndValidate(w, r, &req, maxPageBytes) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	var articles []pagescan.Article
	if page, ok := req.page(); ok {
		var err error
		if articles, err = h.articles(ctx, page); err != nil {
			respondPageError(w, err)
			return
		}
	}

	resp, err := h.engine.Dismiss(ctx, profile, req.ItemID, pagescan.Candidates(articles))
	if err != nil {
		respondStoreError(w, "dismiss item", err)
		return
	}

	out := Recommendation{
		Response:      resp,
		HighlightHTML: highlight(ctx, resp, articles),
	}

	ev := events.NewEvent(events.TypeItemDismissed, profile)
	ev.ItemID = req.ItemID
	h.notify(ctx, ev)
	if h.wsHub != nil {
		h.wsHub.BroadcastToProfile(profile, ws.MessageTypeRefresh, out)
	}

	respondSuccess(w, http.StatusOK, out, start)
}

// Explain lists every eligible article with its score, best first.
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	profile := profileParam(r)

	var req PageRequest
	if !decodeAndValidate(w, r, &req, maxPageBytes) {
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	articles, err := h.articles(ctx, req)
	if err != nil {
		respondPageError(w, err)
		return
	}

	ranked, err := h.engine.Explain(ctx, profile, pagescan.Candidates(articles))
	if err != nil {
		respondStoreError(w, "rank candidates", err)
		return
	}
	if ranked == nil {
		ranked = []recommend.Candidate{}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"scanned":    len(articles),
		"candidates": ranked,
	}, start)
}
