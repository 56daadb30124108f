// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/userbird/internal/model"
	"github.com/olegiv/userbird/internal/service"
)

// FormsHandler serves the dashboard API for forms and their feedback.
type FormsHandler struct {
	forms    *service.FormService
	feedback *service.FeedbackService
}

// NewFormsHandler creates a new FormsHandler.
func NewFormsHandler(forms *service.FormService, feedback *service.FeedbackService) *FormsHandler {
	return &FormsHandler{forms: forms, feedback: feedback}
}

type createFormRequest struct {
	URL string `json:"url"`
}

// Create handles POST /api/forms.
func (h *FormsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFormRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	form, err := h.forms.Create(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, model.ErrFormURLRequired) || errors.Is(err, model.ErrFormURLInvalid) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to create form", "error", err, "category", model.EventCategoryForm)
		writeJSONError(w, http.StatusInternalServerError, "Failed to create form")
		return
	}

	writeJSONSuccess(w, http.StatusCreated, map[string]any{
		"form":     form,
		"snippets": h.forms.Snippets(form.ID),
	})
}

// List handles GET /api/forms.
func (h *FormsHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.forms.List(r.Context())
	if err != nil {
		slog.Error("failed to list forms", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSONSuccess(w, http.StatusOK, map[string]any{"forms": forms})
}

// Snippet handles GET /api/forms/{id}/snippet.
func (h *FormsHandler) Snippet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.requireForm(w, r, id) {
		return
	}

	writeJSONSuccess(w, http.StatusOK, map[string]any{
		"form_id":  id,
		"snippets": h.forms.Snippets(id),
	})
}

// Feedback handles GET /api/forms/{id}/feedback.
func (h *FormsHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.requireForm(w, r, id) {
		return
	}

	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")

	page, err := h.feedback.List(r.Context(), id, limit, offset)
	if err != nil {
		slog.Error("failed to list feedback", "error", err, "form_id", id)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSONSuccess(w, http.StatusOK, map[string]any{
		"feedback": page.Items,
		"total":    page.Total,
		"limit":    page.Limit,
		"offset":   page.Offset,
	})
}

// requireForm writes a 404 or 500 and returns false when id is not a usable form.
func (h *FormsHandler) requireForm(w http.ResponseWriter, r *http.Request, id string) bool {
	if _, err := h.forms.Get(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrFormNotFound) {
			writeJSONError(w, http.StatusNotFound, "Form not found")
		} else {
			slog.Error("failed to get form", "error", err, "form_id", id)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		}
		return false
	}
	return true
}

// queryInt parses a non-negative integer query parameter, returning 0 when
// it is absent or malformed.
func queryInt(r *http.Request, key string) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
