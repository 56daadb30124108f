// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package webhook delivers feedback notifications to an external endpoint.
package webhook

import (
	"time"

	"github.com/olegiv/userbird/internal/model"
	"github.com/olegiv/userbird/internal/store"
)

// Event represents a webhook event to be dispatched.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent creates a new webhook event.
func NewEvent(eventType string, data any) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// FeedbackEventData contains data for feedback.submitted events.
type FeedbackEventData struct {
	ID          int64     `json:"id"`
	FormID      string    `json:"form_id"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewFeedbackEvent builds a feedback.submitted event from a stored row.
func NewFeedbackEvent(fb store.Feedback) *Event {
	return NewEvent(model.EventTypeFeedbackSubmitted, FeedbackEventData{
		ID:          fb.ID,
		FormID:      fb.FormID,
		Message:     fb.Message,
		SubmittedAt: fb.CreatedAt,
	})
}
