// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"html"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mileusna/useragent"

	"github.com/olegiv/userbird/internal/store"
)

// Feedback listing limits.
const (
	DefaultFeedbackLimit = 50
	MaxFeedbackLimit     = 200
)

// messageSanitizer strips all markup from stored messages before they are
// handed to the dashboard. Messages are stored as submitted.
var messageSanitizer = bluemonday.StrictPolicy()

// FeedbackInput is a validated submission ready to be stored.
type FeedbackInput struct {
	FormID    string
	Message   string
	UserAgent string
	IPAddress string
}

// FeedbackView is a stored feedback row prepared for display.
type FeedbackView struct {
	ID        int64     `json:"id"`
	FormID    string    `json:"form_id"`
	Message   string    `json:"message"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os"`
	Device    string    `json:"device"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackPage is one page of feedback for a form.
type FeedbackPage struct {
	Items  []FeedbackView `json:"items"`
	Total  int64          `json:"total"`
	Limit  int64          `json:"limit"`
	Offset int64          `json:"offset"`
}

// FeedbackService stores and lists feedback.
type FeedbackService struct {
	queries   *store.Queries
	countries CountryResolver
}

// CountryResolver maps a submitter IP to a country code.
type CountryResolver interface {
	Country(ip string) string
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(db *sql.DB) *FeedbackService {
	return &FeedbackService{queries: store.New(db)}
}

// WithCountries sets the resolver used to label listed feedback with the
// submitter's country.
func (s *FeedbackService) WithCountries(r CountryResolver) *FeedbackService {
	s.countries = r
	return s
}

// Record inserts exactly one feedback row.
func (s *FeedbackService) Record(ctx context.Context, in FeedbackInput) (store.Feedback, error) {
	fb, err := s.queries.CreateFeedback(ctx, store.CreateFeedbackParams{
		FormID:    in.FormID,
		Message:   in.Message,
		UserAgent: nullString(in.UserAgent),
		IpAddress: nullString(in.IPAddress),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return store.Feedback{}, fmt.Errorf("inserting feedback: %w", err)
	}
	return fb, nil
}

// List returns feedback for a form, newest first. limit is clamped to
// [1, MaxFeedbackLimit] with DefaultFeedbackLimit used for non-positive values.
func (s *FeedbackService) List(ctx context.Context, formID string, limit, offset int64) (FeedbackPage, error) {
	if limit <= 0 {
		limit = DefaultFeedbackLimit
	}
	if limit > MaxFeedbackLimit {
		limit = MaxFeedbackLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.queries.ListFeedbackByForm(ctx, store.ListFeedbackByFormParams{
		FormID: formID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return FeedbackPage{}, fmt.Errorf("listing feedback: %w", err)
	}

	total, err := s.queries.CountFeedbackByForm(ctx, formID)
	if err != nil {
		return FeedbackPage{}, fmt.Errorf("counting feedback: %w", err)
	}

	items := make([]FeedbackView, 0, len(rows))
	for _, r := range rows {
		v := toFeedbackView(r)
		if s.countries != nil && r.IpAddress.Valid {
			v.Country = s.countries.Country(r.IpAddress.String)
		}
		items = append(items, v)
	}

	return FeedbackPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func toFeedbackView(fb store.Feedback) FeedbackView {
	v := FeedbackView{
		ID:        fb.ID,
		FormID:    fb.FormID,
		Message:   plainText(fb.Message),
		CreatedAt: fb.CreatedAt,
	}
	v.Browser, v.OS, v.Device = summarizeUserAgent(fb.UserAgent.String)
	return v
}

// plainText strips markup and decodes the entities the sanitizer leaves, so
// listings return the text the submitter typed.
func plainText(s string) string {
	return html.UnescapeString(messageSanitizer.Sanitize(s))
}

// summarizeUserAgent extracts browser, OS and device type from a user agent string.
func summarizeUserAgent(uaString string) (browser, os, device string) {
	if uaString == "" {
		return "Unknown", "Unknown", "unknown"
	}

	ua := useragent.Parse(uaString)
	browser, os = ua.Name, ua.OS
	if browser == "" {
		browser = "Unknown"
	}
	if os == "" {
		os = "Unknown"
	}

	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	default:
		device = "desktop"
	}
	return browser, os, device
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
