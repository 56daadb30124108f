// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/olegiv/userbird/internal/model"
	"github.com/olegiv/userbird/internal/origin"
	"github.com/olegiv/userbird/internal/service"
	"github.com/olegiv/userbird/internal/store"
)

// MaxFeedbackBodySize caps the submission request body.
const MaxFeedbackBodySize = 64 << 10

// Fixed error messages of the submission endpoint.
const (
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidRequest   = "Invalid request data"
	msgOriginNotAllowed = "Origin not allowed"
	msgInternalError    = "Internal server error"
)

// FormLookup resolves a form id to its registered form.
type FormLookup interface {
	Lookup(ctx context.Context, id string) (store.Form, bool)
}

// FeedbackRecorder stores one feedback submission.
type FeedbackRecorder interface {
	Record(ctx context.Context, in service.FeedbackInput) (store.Feedback, error)
}

// FeedbackNotifier is told about every stored submission. It must not block.
type FeedbackNotifier interface {
	NotifyFeedback(fb store.Feedback)
}

// FeedbackHandler accepts widget submissions.
type FeedbackHandler struct {
	forms    FormLookup
	feedback FeedbackRecorder
	notifier FeedbackNotifier
	logger   *slog.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler. notifier may be nil.
func NewFeedbackHandler(forms FormLookup, feedback FeedbackRecorder, notifier FeedbackNotifier, logger *slog.Logger) *FeedbackHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedbackHandler{
		forms:    forms,
		feedback: feedback,
		notifier: notifier,
		logger:   logger,
	}
}

type feedbackRequest struct {
	FormID  string `json:"formId"`
	Message string `json:"message"`
}

// ServeHTTP handles POST and OPTIONS /feedback.
func (h *FeedbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setFeedbackCORSHeaders(w, r)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		writeJSONError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	req, ok := decodeFeedbackRequest(w, r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	// Requests without an Origin header are not checked against the registry.
	if requestOrigin := r.Header.Get("Origin"); requestOrigin != "" {
		form, found := h.forms.Lookup(r.Context(), req.FormID)
		if !found || !origin.IsAuthorized(requestOrigin, form.URL) {
			h.logger.Info("feedback rejected",
				"form_id", req.FormID,
				"origin", requestOrigin,
				"form_found", found)
			writeJSONError(w, http.StatusForbidden, msgOriginNotAllowed)
			return
		}
	}

	fb, err := h.feedback.Record(r.Context(), service.FeedbackInput{
		FormID:    req.FormID,
		Message:   req.Message,
		UserAgent: r.UserAgent(),
		IPAddress: clientIP(r),
	})
	if err != nil {
		h.logger.Error("failed to insert feedback",
			"error", err,
			"form_id", req.FormID,
			"category", model.EventCategoryFeedback)
		writeJSONError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	h.logger.Info("feedback received", "form_id", fb.FormID, "feedback_id", fb.ID)

	if h.notifier != nil {
		h.notifier.NotifyFeedback(fb)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// decodeFeedbackRequest reads a JSON object with a non-empty formId and a
// message that is not blank once trimmed. The message is returned untrimmed.
func decodeFeedbackRequest(w http.ResponseWriter, r *http.Request) (feedbackRequest, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxFeedbackBodySize))
	if err != nil {
		return feedbackRequest{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return feedbackRequest{}, false
	}

	var req feedbackRequest
	if !decodeString(fields["formId"], &req.FormID) || !decodeString(fields["message"], &req.Message) {
		return feedbackRequest{}, false
	}

	if req.FormID == "" || strings.TrimSpace(req.Message) == "" {
		return feedbackRequest{}, false
	}
	return req, true
}

// decodeString accepts only a JSON string value.
func decodeString(raw json.RawMessage, dst *string) bool {
	if len(raw) == 0 || raw[0] != '"' {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// clientIP returns the caller's address without the port. chi's RealIP
// middleware has already replaced RemoteAddr when proxy headers are present.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
