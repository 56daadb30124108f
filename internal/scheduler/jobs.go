// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/userbird/internal/store"
)

// Job names.
const (
	JobEventRetention = "event-retention"
	JobGeoIPReload    = "geoip-reload"
)

// EventRetentionJob deletes event log rows older than retention.
func EventRetentionJob(db *sql.DB, schedule string, retention time.Duration, logger *slog.Logger) Job {
	queries := store.New(db)
	return Job{
		Name:     JobEventRetention,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().UTC().Add(-retention)
			deleted, err := queries.DeleteEventsBefore(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("pruning events: %w", err)
			}
			if deleted > 0 {
				logger.Info("pruned event log", "deleted", deleted, "before", cutoff.Format(time.RFC3339))
			}
			return nil
		},
	}
}

// Reloader is a resource that can pick up an updated file from disk.
type Reloader interface {
	Reload() error
}

// GeoIPReloadJob reopens the GeoIP database when its file changes.
func GeoIPReloadJob(r Reloader, schedule string) Job {
	return Job{
		Name:     JobGeoIPReload,
		Schedule: schedule,
		Run: func(context.Context) error {
			return r.Reload()
		},
	}
}
