// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sanchomuzax/hirstart-recosys/internal/auth"
	"github.com/sanchomuzax/hirstart-recosys/internal/clicklog"
	"github.com/sanchomuzax/hirstart-recosys/internal/config"
	"github.com/sanchomuzax/hirstart-recosys/internal/events"
	"github.com/sanchomuzax/hirstart-recosys/internal/logging"
	"github.com/sanchomuzax/hirstart-recosys/internal/pagescan"
	"github.com/sanchomuzax/hirstart-recosys/internal/recommend"
	"github.com/sanchomuzax/hirstart-recosys/internal/seen"
	"github.com/sanchomuzax/hirstart-recosys/internal/storage"
	ws "github.com/sanchomuzax/hirstart-recosys/internal/websocket"
)

// PageFetcher returns the articles on a portal page.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]pagescan.Article, error)
}

// Deps are the collaborators a Handler needs. Tokens, Fetcher, Hub and
// Events are optional.
type Deps struct {
	Config   *config.Config
	Store    storage.Store
	Locker   *storage.Locker
	Tracker  *clicklog.Tracker
	Registry *seen.Registry
	Engine   *recommend.Engine
	Resolver *pagescan.Resolver
	Scanner  *pagescan.Scanner
	Fetcher  PageFetcher
	Tokens   *auth.TokenManager
	Hub      *ws.Hub
	Events   events.Publisher
}

// Handler serves every API route.
type Handler struct {
	config    *config.Config
	store     storage.Store
	locker    *storage.Locker
	tracker   *clicklog.Tracker
	registry  *seen.Registry
	engine    *recommend.Engine
	resolver  *pagescan.Resolver
	scanner   *pagescan.Scanner
	fetcher   PageFetcher
	tokens    *auth.TokenManager
	wsHub     *ws.Hub
	events    events.Publisher
	timeout   time.Duration
	startTime time.Time
}

// NewHandler creates a Handler from deps.
func NewHandler(deps Deps) *Handler {
	timeout := 10 * time.Second
	if deps.Config != nil && deps.Config.Server.Timeout > 0 {
		timeout = deps.Config.Server.Timeout
	}
	return &Handler{
		config:    deps.Config,
		store:     deps.Store,
		locker:    deps.Locker,
		tracker:   deps.Tracker,
		registry:  deps.Registry,
		engine:    deps.Engine,
		resolver:  deps.Resolver,
		scanner:   deps.Scanner,
		fetcher:   deps.Fetcher,
		tokens:    deps.Tokens,
		wsHub:     deps.Hub,
		events:    deps.Events,
		timeout:   timeout,
		startTime: time.Now(),
	}
}

func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts only browser origins allowed for CORS.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}
	if h.config == nil {
		return true
	}
	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}
