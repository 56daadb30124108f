// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic for forms, feedback and the event log.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/userbird/internal/cache"
	"github.com/olegiv/userbird/internal/model"
	"github.com/olegiv/userbird/internal/store"
)

// ErrFormNotFound is returned when a form id does not resolve to a registered form.
var ErrFormNotFound = errors.New("form not found")

// FormService resolves and manages registered forms.
type FormService struct {
	queries   *store.Queries
	cache     *cache.FormCache
	logger    *slog.Logger
	publicURL string
}

// NewFormService creates a new FormService. formCache may be nil.
func NewFormService(db *sql.DB, formCache *cache.FormCache, publicURL string, logger *slog.Logger) *FormService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormService{
		queries:   store.New(db),
		cache:     formCache,
		logger:    logger,
		publicURL: publicURL,
	}
}

// Lookup returns the registered form for id. It reports false when no form
// exists and also when the datastore cannot be queried, so callers treat an
// unavailable registry the same as an unknown form.
func (s *FormService) Lookup(ctx context.Context, id string) (store.Form, bool) {
	if id == "" {
		return store.Form{}, false
	}

	if s.cache != nil {
		if form, ok := s.cache.Get(ctx, id); ok {
			return form, true
		}
	}

	form, err := s.queries.GetFormByID(ctx, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("form lookup failed", "error", err, "form_id", id, "category", model.EventCategoryForm)
		}
		return store.Form{}, false
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, form); err != nil {
			s.logger.Debug("caching form failed", "error", err, "form_id", id)
		}
	}

	return form, true
}

// Get returns a form by id, or ErrFormNotFound.
func (s *FormService) Get(ctx context.Context, id string) (store.Form, error) {
	form, err := s.queries.GetFormByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Form{}, ErrFormNotFound
	}
	if err != nil {
		return store.Form{}, fmt.Errorf("getting form: %w", err)
	}
	return form, nil
}

// Create registers a new form for the given host. Validation failures are
// returned as model.ErrFormURLRequired or model.ErrFormURLInvalid.
func (s *FormService) Create(ctx context.Context, rawURL string) (store.Form, error) {
	host, err := model.NormalizeFormURL(rawURL)
	if err != nil {
		return store.Form{}, err
	}

	form, err := s.queries.CreateForm(ctx, store.CreateFormParams{
		ID:        model.NewFormID(),
		URL:       host,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return store.Form{}, fmt.Errorf("creating form: %w", err)
	}

	s.logger.Info("form created", "form_id", form.ID, "url", form.URL, "category", model.EventCategoryForm)
	return form, nil
}

// FormSummary is a registered form with its feedback count.
type FormSummary struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	CreatedAt     time.Time `json:"created_at"`
	FeedbackCount int64     `json:"feedback_count"`
}

// List returns all forms, newest first.
func (s *FormService) List(ctx context.Context) ([]FormSummary, error) {
	rows, err := s.queries.ListForms(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing forms: %w", err)
	}

	forms := make([]FormSummary, 0, len(rows))
	for _, r := range rows {
		forms = append(forms, FormSummary{
			ID:            r.ID,
			URL:           r.URL,
			CreatedAt:     r.CreatedAt,
			FeedbackCount: r.FeedbackCount,
		})
	}
	return forms, nil
}
