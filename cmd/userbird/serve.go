// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olegiv/userbird/internal/cache"
	"github.com/olegiv/userbird/internal/config"
	"github.com/olegiv/userbird/internal/geoip"
	"github.com/olegiv/userbird/internal/handler"
	"github.com/olegiv/userbird/internal/model"
	"github.com/olegiv/userbird/internal/scheduler"
	"github.com/olegiv/userbird/internal/service"
	"github.com/olegiv/userbird/internal/webhook"
	"github.com/olegiv/userbird/web"
)

const (
	shutdownTimeout = 30 * time.Second
	geoIPSchedule   = "@daily"
)

type serveCommand struct{}

func (c *serveCommand) Execute([]string) error {
	a, err := openApp(os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.serve()
}

func cacheConfig(cfg *config.Config) cache.Config {
	cc := cache.DefaultConfig()
	cc.RedisURL = cfg.RedisURL
	cc.Prefix = cfg.CachePrefix
	cc.DefaultTTL = cfg.CacheTTLDuration()
	cc.MaxSize = cfg.CacheMaxSize
	if cfg.UseRedisCache() {
		cc.Type = cache.TypeRedis
	}
	return cc
}

func (a *app) serve() error {
	cfg := a.cfg
	info := buildInfo()

	backend, cacheInfo, err := cache.NewCache(cacheConfig(cfg), a.logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = backend.Close() }()

	if cacheInfo.IsFallback {
		slog.Warn("form cache initialized", "backend", cacheInfo.Backend,
			"note", "Redis unavailable, using fallback", "category", model.EventCategoryCache)
	} else {
		slog.Info("form cache initialized", "backend", cacheInfo.Backend)
	}

	formService := service.NewFormService(a.db, cache.NewFormCache(backend, cfg.CacheTTLDuration()), cfg.PublicURL, a.logger)
	countries, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip disabled", "error", err, "category", model.EventCategoryConfig)
	}
	defer func() { _ = countries.Close() }()

	feedbackService := service.NewFeedbackService(a.db).WithCountries(countries)
	eventService := service.NewEventService(a.db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var notifier handler.FeedbackNotifier
	if cfg.WebhookEnabled() {
		dispatcher := webhook.NewDispatcher(webhook.Config{
			URL:          cfg.WebhookURL,
			Secret:       cfg.WebhookSecret,
			AllowPrivate: cfg.WebhookAllowPrivate,
		}, a.logger)
		dispatcher.Start(ctx)
		defer dispatcher.Stop()
		notifier = dispatcher
	}

	sched, err := a.newScheduler(countries)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	widgetHandler, err := handler.NewWidgetHandler(web.Static, web.LoaderPath, cfg.WidgetDir)
	if err != nil {
		return fmt.Errorf("loading widget loader: %w", err)
	}

	r := newRouter(routerConfig{
		RequestTimeout:   cfg.RequestTimeoutDuration(),
		DashboardOrigins: cfg.DashboardOrigins,
		IsDevelopment:    cfg.IsDevelopment(),
	}, routerHandlers{
		Feedback: handler.NewFeedbackHandler(formService, feedbackService, notifier, a.logger),
		Forms:    handler.NewFormsHandler(formService, feedbackService),
		Events:   handler.NewEventsHandler(eventService),
		Health:   handler.NewHealthHandler(a.db, info),
		Widget:   widgetHandler,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeoutDuration() + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newScheduler registers the maintenance jobs enabled by the configuration.
func (a *app) newScheduler(countries *geoip.Lookup) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.logger)

	if retention := a.cfg.EventRetention(); retention > 0 {
		if err := sched.Add(scheduler.EventRetentionJob(a.db, a.cfg.RetentionSchedule, retention, a.logger)); err != nil {
			return nil, err
		}
	}
	if a.cfg.GeoIPDBPath != "" {
		if err := sched.Add(scheduler.GeoIPReloadJob(countries, geoIPSchedule)); err != nil {
			return nil, err
		}
	}
	return sched, nil
}
