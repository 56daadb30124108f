// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/userbird/internal/service"
	"github.com/olegiv/userbird/internal/store"
	"github.com/olegiv/userbird/internal/testutil"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []store.Feedback
}

func (n *recordingNotifier) NotifyFeedback(fb store.Feedback) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, fb)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, service.FeedbackInput) (store.Feedback, error) {
	return store.Feedback{}, errors.New("database is locked: secret detail")
}

type feedbackFixture struct {
	db       *sql.DB
	handler  *FeedbackHandler
	notifier *recordingNotifier
}

func newFeedbackFixture(t *testing.T) *feedbackFixture {
	t.Helper()

	db := testDB(t)
	forms := []struct{ id, url string }{
		{"prod-form", "example.com"},
		{"local-form", "localhost:3000"},
		{"bare-local-form", "localhost"},
	}
	q := store.New(db)
	for _, f := range forms {
		_, err := q.CreateForm(context.Background(), store.CreateFormParams{ID: f.id, URL: f.url, CreatedAt: time.Now()})
		require.NoError(t, err)
	}

	notifier := &recordingNotifier{}
	logger := testutil.TestLoggerSilent()
	h := NewFeedbackHandler(
		service.NewFormService(db, nil, "", logger),
		service.NewFeedbackService(db),
		notifier,
		logger,
	)
	return &feedbackFixture{db: db, handler: h, notifier: notifier}
}

func (f *feedbackFixture) do(method, origin, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *feedbackFixture) feedbackCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM feedback").Scan(&n))
	return n
}

func assertCORSHeaders(t *testing.T, w *httptest.ResponseRecorder, wantOrigin string) {
	t.Helper()
	h := w.Header()
	assert.Equal(t, wantOrigin, h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type, Accept, Origin", h.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "POST, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "86400", h.Get("Access-Control-Max-Age"))
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "Origin", h.Get("Vary"))
}

func assertErrorBody(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]any{"error": want}, resp)
}

func TestFeedbackHandler_Preflight(t *testing.T) {
	f := newFeedbackFixture(t)

	w := f.do(http.MethodOptions, "https://example.com", "")

	assertStatus(t, w.Code, http.StatusNoContent)
	assert.Empty(t, w.Body.String())
	assertCORSHeaders(t, w, "https://example.com")
	assert.Equal(t, 0, f.feedbackCount(t))
}

func TestFeedbackHandler_MethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			f := newFeedbackFixture(t)

			w := f.do(method, "", `{"formId":"prod-form","message":"hi"}`)

			assertStatus(t, w.Code, http.StatusMethodNotAllowed)
			assertErrorBody(t, w, "Method not allowed")
			assertCORSHeaders(t, w, "*")
			assert.Equal(t, 0, f.feedbackCount(t))
		})
	}
}

func TestFeedbackHandler_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"not json", "formId=prod-form&message=hi"},
		{"json array", `[{"formId":"prod-form","message":"hi"}]`},
		{"json null", "null"},
		{"json string", `"hello"`},
		{"trailing data", `{"formId":"prod-form","message":"hi"} {}`},
		{"missing formId", `{"message":"hi"}`},
		{"empty formId", `{"formId":"","message":"hi"}`},
		{"numeric formId", `{"formId":42,"message":"hi"}`},
		{"missing message", `{"formId":"prod-form"}`},
		{"null message", `{"formId":"prod-form","message":null}`},
		{"numeric message", `{"formId":"prod-form","message":7}`},
		{"empty message", `{"formId":"prod-form","message":""}`},
		{"whitespace message", `{"formId":"prod-form","message":" \n\t "}`},
		{"oversize body", `{"formId":"prod-form","message":"` + strings.Repeat("a", MaxFeedbackBodySize) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFeedbackFixture(t)

			w := f.do(http.MethodPost, "https://example.com", tt.body)

			assertStatus(t, w.Code, http.StatusBadRequest)
			assertErrorBody(t, w, "Invalid request data")
			assertCORSHeaders(t, w, "https://example.com")
			assert.Equal(t, 0, f.feedbackCount(t))
			assert.Equal(t, 0, f.notifier.count())
		})
	}
}

func TestFeedbackHandler_OriginChecks(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		formID   string
		wantCode int
	}{
		{"matching host", "https://example.com", "prod-form", http.StatusOK},
		{"host match is case-insensitive", "https://EXAMPLE.com", "prod-form", http.StatusOK},
		{"port ignored for non-localhost", "https://example.com:8443", "prod-form", http.StatusOK},
		{"other scheme same host", "http://example.com", "prod-form", http.StatusOK},
		{"different host", "https://evil.com", "prod-form", http.StatusForbidden},
		{"subdomain not matched", "https://www.example.com", "prod-form", http.StatusForbidden},
		{"suffix attack", "https://example.com.evil.com", "prod-form", http.StatusForbidden},
		{"unknown form", "https://example.com", "missing-form", http.StatusForbidden},
		{"localhost matching port", "http://localhost:3000", "local-form", http.StatusOK},
		{"localhost wrong port", "http://localhost:4000", "local-form", http.StatusForbidden},
		{"localhost no port vs registered port", "http://localhost", "local-form", http.StatusForbidden},
		{"bare localhost", "http://localhost", "bare-local-form", http.StatusOK},
		{"bare localhost with port", "http://localhost:3000", "bare-local-form", http.StatusForbidden},
		{"malformed origin", "not an origin", "prod-form", http.StatusForbidden},
		{"null origin", "null", "prod-form", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFeedbackFixture(t)

			w := f.do(http.MethodPost, tt.origin, `{"formId":"`+tt.formID+`","message":"Great widget"}`)

			assertStatus(t, w.Code, tt.wantCode)
			assertCORSHeaders(t, w, tt.origin)

			if tt.wantCode == http.StatusOK {
				assert.JSONEq(t, `{"success":true}`, w.Body.String())
				assert.Equal(t, 1, f.feedbackCount(t))
				assert.Equal(t, 1, f.notifier.count())
			} else {
				assertErrorBody(t, w, "Origin not allowed")
				assert.Equal(t, 0, f.feedbackCount(t))
				assert.Equal(t, 0, f.notifier.count())
			}
		})
	}
}

func TestFeedbackHandler_NoOriginSkipsRegistry(t *testing.T) {
	f := newFeedbackFixture(t)

	w := f.do(http.MethodPost, "", `{"formId":"never-registered","message":"from curl"}`)

	assertStatus(t, w.Code, http.StatusOK)
	assertCORSHeaders(t, w, "*")
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, 1, f.feedbackCount(t))
}

func TestFeedbackHandler_StoresSubmission(t *testing.T) {
	f := newFeedbackFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/feedback",
		strings.NewReader(`{"formId":"prod-form","message":"  Love it!  "}`))
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("User-Agent", "Mozilla/5.0 Test")
	req.RemoteAddr = "203.0.113.9:52100"
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assertStatus(t, w.Code, http.StatusOK)

	var formID, message string
	var ua, ip sql.NullString
	require.NoError(t, f.db.QueryRow(
		"SELECT form_id, message, user_agent, ip_address FROM feedback").Scan(&formID, &message, &ua, &ip))
	assert.Equal(t, "prod-form", formID)
	assert.Equal(t, "  Love it!  ", message, "message is stored as submitted")
	assert.Equal(t, "Mozilla/5.0 Test", ua.String)
	assert.Equal(t, "203.0.113.9", ip.String)

	require.Equal(t, 1, f.notifier.count())
	assert.Equal(t, "prod-form", f.notifier.calls[0].FormID)
}

func TestFeedbackHandler_InsertFailure(t *testing.T) {
	db := testDB(t)
	notifier := &recordingNotifier{}
	logger := testutil.TestLoggerSilent()
	h := NewFeedbackHandler(service.NewFormService(db, nil, "", logger), failingRecorder{}, notifier, logger)

	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(`{"formId":"any","message":"hi"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assertStatus(t, w.Code, http.StatusInternalServerError)
	assertErrorBody(t, w, "Internal server error")
	assertCORSHeaders(t, w, "*")
	assert.NotContains(t, w.Body.String(), "secret detail")
	assert.Equal(t, 0, notifier.count())
}

func TestFeedbackHandler_RegistryUnavailableFailsClosed(t *testing.T) {
	f := newFeedbackFixture(t)
	require.NoError(t, f.db.Close())

	w := f.do(http.MethodPost, "https://example.com", `{"formId":"prod-form","message":"hi"}`)

	assertStatus(t, w.Code, http.StatusForbidden)
	assertErrorBody(t, w, "Origin not allowed")
}

func TestFeedbackHandler_NilNotifier(t *testing.T) {
	db := testDB(t)
	h := NewFeedbackHandler(service.NewFormService(db, nil, "", nil), service.NewFeedbackService(db), nil, testutil.TestLoggerSilent())

	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(`{"formId":"x","message":"hi"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assertStatus(t, w.Code, http.StatusOK)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/feedback", nil)
		r.RemoteAddr = tt.remoteAddr
		if got := clientIP(r); got != tt.want {
			t.Errorf("clientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
		}
	}
}

func TestFeedbackCORS_SetsHeadersBeforeNext(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get("Access-Control-Allow-Origin")
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	req := httptest.NewRequest(http.MethodPost, "/feedback", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	FeedbackCORS(next).ServeHTTP(w, req)

	assert.Equal(t, "https://example.com", seen)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}
