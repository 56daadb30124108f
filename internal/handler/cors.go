// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "net/http"

// Fixed CORS values for the public submission endpoint.
const (
	feedbackAllowHeaders = "Content-Type, Accept, Origin"
	feedbackAllowMethods = "POST, OPTIONS"
	feedbackMaxAge       = "86400"
)

// setFeedbackCORSHeaders sets the headers every submission response carries.
// The request origin is echoed back, or "*" when the request has none. This
// is not an authorization decision: the handler checks the origin against the
// registered form before anything is stored.
func setFeedbackCORSHeaders(w http.ResponseWriter, r *http.Request) {
	allowOrigin := r.Header.Get("Origin")
	if allowOrigin == "" {
		allowOrigin = "*"
	}

	h := w.Header()
	h.Set("Access-Control-Allow-Origin", allowOrigin)
	h.Set("Access-Control-Allow-Headers", feedbackAllowHeaders)
	h.Set("Access-Control-Allow-Methods", feedbackAllowMethods)
	h.Set("Access-Control-Max-Age", feedbackMaxAge)
	h.Set("Content-Type", "application/json")
	h.Set("Vary", "Origin")
	h.Set("X-Content-Type-Options", "nosniff")
}

// FeedbackCORS sets the submission CORS headers before next runs, so
// responses written by outer layers, such as a request timeout, carry them.
func FeedbackCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setFeedbackCORSHeaders(w, r)
		next.ServeHTTP(w, r)
	})
}
