// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/olegiv/userbird/internal/config"
	"github.com/olegiv/userbird/internal/logging"
	"github.com/olegiv/userbird/internal/store"
)

// app holds what every command needs: configuration, a logger and an open,
// migrated database.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogHandler returns the console handler for cfg.
func newLogHandler(cfg *config.Config, w io.Writer) slog.Handler {
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if cfg.LogFormat == "json" {
		return slog.NewJSONHandler(w, handlerOpts)
	}
	return slog.NewTextHandler(w, handlerOpts)
}

// openApp loads configuration, opens the database and runs migrations. Once
// the database is ready, WARN and ERROR logs are also written to the event
// log table.
func openApp(logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(newLogHandler(cfg, logOut))
	slog.SetDefault(logger)

	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	slog.Debug("opening database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger = slog.New(logging.NewEventLogHandler(newLogHandler(cfg, logOut), db))
	slog.SetDefault(logger)

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Error("error closing database connection", "error", err)
	}
}
