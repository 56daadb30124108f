// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for Userbird packages.
package testutil

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/userbird/internal/store"
)

// TestLogger creates a quiet test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a logger that only outputs errors.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestDB creates a temporary migrated database that is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "userbird-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}

// CreateForm inserts a form directly, bypassing URL normalization.
func CreateForm(t *testing.T, db *sql.DB, id, url string) store.Form {
	t.Helper()

	form, err := store.New(db).CreateForm(t.Context(), store.CreateFormParams{
		ID:        id,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateForm: %v", err)
	}
	return form
}

// CountFeedback returns the number of stored feedback rows.
func CountFeedback(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM feedback").Scan(&n); err != nil {
		t.Fatalf("counting feedback: %v", err)
	}
	return n
}
