// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanchomuzax/hirstart-recosys/internal/auth"
	"github.com/sanchomuzax/hirstart-recosys/internal/config"
	"github.com/sanchomuzax/hirstart-recosys/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	auth          *auth.Middleware
}

// NewRouter creates a Router. Token enforcement follows
// Security.RequireToken; handler.tokens must be set when it is on.
func NewRouter(handler *Handler) *Router {
	sec := config.SecurityConfig{}
	if handler.config != nil {
		sec = handler.config.Security
	}
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFrom(sec)),
		auth:          auth.NewMiddleware(handler.tokens, sec.RequireToken, profileParam),
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to chi's signature.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi returns the complete route tree.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/profiles", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.With(router.chiMiddleware.RateLimitCustom(RateLimitProfiles)).Post("/", router.handler.CreateProfile)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(requireProfileID)
			r.Use(router.auth.RequireProfileToken)

			// Ingestion
			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimit())
				r.Post("/clicks", router.handler.RecordClick)
				r.Post("/seen", router.handler.MarkSeen)
				r.Post("/dismiss", router.handler.Dismiss)
			})

			r.Get("/seen/{item}", router.handler.HasSeen)
			r.Post("/recommendation", router.handler.Recommend)
			r.Post("/explain", router.handler.Explain)
			r.Get("/stats", router.handler.Stats)
			r.Get("/panel", router.handler.Panel)
			r.Get("/ws", router.handler.WebSocket)
			r.Delete("/", router.handler.ResetProfile)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
