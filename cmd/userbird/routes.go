// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/olegiv/userbird/internal/handler"
	"github.com/olegiv/userbird/internal/middleware"
)

// Public submission paths. The Netlify path is where older copies of the
// widget script post.
const (
	RouteFeedback       = "/feedback"
	RouteLegacyFeedback = "/.netlify/functions/feedback"
)

type routerConfig struct {
	RequestTimeout   time.Duration
	DashboardOrigins []string
	IsDevelopment    bool
}

type routerHandlers struct {
	Feedback http.Handler
	Forms    *handler.FormsHandler
	Events   *handler.EventsHandler
	Health   *handler.HealthHandler
	Widget   *handler.WidgetHandler
}

// dashboardCORS allows the configured dashboard origins to call /api. With no
// origins configured, cross-origin calls are refused.
func dashboardCORS(origins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		MaxAge:         600,
	}
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(opts).Handler
}

func newRouter(cfg routerConfig, h routerHandlers) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	timeout := middleware.Timeout(cfg.RequestTimeout)

	// Submissions answer CORS themselves, for every method, including a
	// timed-out request.
	r.Group(func(r chi.Router) {
		r.Use(handler.FeedbackCORS)
		r.Use(timeout)

		r.Handle(RouteFeedback, h.Feedback)
		r.Handle(RouteLegacyFeedback, h.Feedback)
		r.Handle(RouteLegacyFeedback+"/", h.Feedback)
	})

	r.Group(func(r chi.Router) {
		r.Use(timeout)

		if h.Widget != nil {
			r.Get("/widget.js", h.Widget.Loader)
			r.Get("/"+handler.WidgetWasmFile, h.Widget.Wasm)
			r.Get("/"+handler.WidgetRuntimeFile, h.Widget.Runtime)
		}

		secure := middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment))

		r.With(secure).Get("/health", h.Health.Health)

		r.Route("/api", func(r chi.Router) {
			r.Use(dashboardCORS(cfg.DashboardOrigins))
			r.Use(secure)

			r.Get("/forms", h.Forms.List)
			r.Post("/forms", h.Forms.Create)
			r.Get("/forms/{id}/snippet", h.Forms.Snippet)
			r.Get("/forms/{id}/feedback", h.Forms.Feedback)
			r.Get("/events", h.Events.List)
		})
	})

	return r
}
