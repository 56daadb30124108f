// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/userbird/internal/handler"
	"github.com/olegiv/userbird/internal/service"
	"github.com/olegiv/userbird/internal/testutil"
	"github.com/olegiv/userbird/internal/version"
	"github.com/olegiv/userbird/web"
)

type testServer struct {
	router http.Handler
	t      *testing.T
}

func newTestServer(t *testing.T, dashboardOrigins ...string) (*testServer, *sql.DB) {
	t.Helper()

	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()

	forms := service.NewFormService(db, nil, "https://userbird.example.com", logger)
	feedback := service.NewFeedbackService(db)

	widget, err := handler.NewWidgetHandler(web.Static, web.LoaderPath, t.TempDir())
	require.NoError(t, err)

	r := newRouter(routerConfig{
		RequestTimeout:   5 * time.Second,
		DashboardOrigins: dashboardOrigins,
	}, routerHandlers{
		Feedback: handler.NewFeedbackHandler(forms, feedback, nil, logger),
		Forms:    handler.NewFormsHandler(forms, feedback),
		Events:   handler.NewEventsHandler(service.NewEventService(db)),
		Health:   handler.NewHealthHandler(db, version.New("", "", "")),
		Widget:   widget,
	})

	return &testServer{router: r, t: t}, db
}

func (s *testServer) do(method, path, origin, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestRouter_FeedbackPaths(t *testing.T) {
	for _, path := range []string{RouteFeedback, RouteLegacyFeedback, RouteLegacyFeedback + "/"} {
		t.Run(path, func(t *testing.T) {
			srv, db := newTestServer(t)
			testutil.CreateForm(t, db, "form1", "example.com")

			w := srv.do(http.MethodPost, path, "https://example.com",
				`{"formId":"form1","message":"Great app!"}`)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"success":true}`, w.Body.String())
			assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, 1, testutil.CountFeedback(t, db))
		})
	}
}

func TestRouter_FeedbackPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	w := srv.do(http.MethodOptions, RouteFeedback, "https://anything.example", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://anything.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestRouter_FeedbackTimeoutKeepsCORS(t *testing.T) {
	db := testutil.TestDB(t)
	forms := service.NewFormService(db, nil, "", nil)
	feedback := service.NewFeedbackService(db)

	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		w.Header().Set("Access-Control-Allow-Origin", "late")
	})

	r := newRouter(routerConfig{RequestTimeout: 10 * time.Millisecond}, routerHandlers{
		Feedback: slow,
		Forms:    handler.NewFormsHandler(forms, feedback),
		Events:   handler.NewEventsHandler(service.NewEventService(db)),
		Health:   handler.NewHealthHandler(db, version.New("", "", "")),
	})
	srv := &testServer{router: r, t: t}

	w := srv.do(http.MethodPost, RouteFeedback, "https://example.com", `{"formId":"f","message":"hi"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestRouter_FeedbackWrongOrigin(t *testing.T) {
	srv, db := newTestServer(t)
	testutil.CreateForm(t, db, "form1", "example.com")

	w := srv.do(http.MethodPost, RouteFeedback, "https://evil.com",
		`{"formId":"form1","message":"spam"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, testutil.CountFeedback(t, db))
}

func TestRouter_CreateAndListForms(t *testing.T) {
	srv, _ := newTestServer(t)

	w := srv.do(http.MethodPost, "/api/forms", "", `{"url":"Example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Success  bool             `json:"success"`
		Form     map[string]any   `json:"form"`
		Snippets service.Snippets `json:"snippets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Contains(t, created.Snippets.Script, "https://userbird.example.com/widget.js")

	w = srv.do(http.MethodGet, "/api/forms", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"example.com"`)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRouter_DashboardCORS(t *testing.T) {
	t.Run("allowed origin", func(t *testing.T) {
		srv, _ := newTestServer(t, "https://dash.example.com")

		req := httptest.NewRequest(http.MethodOptions, "/api/forms", nil)
		req.Header.Set("Origin", "https://dash.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		assert.Equal(t, "https://dash.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin", func(t *testing.T) {
		srv, _ := newTestServer(t, "https://dash.example.com")

		w := srv.do(http.MethodGet, "/api/forms", "https://evil.example", "")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("none configured", func(t *testing.T) {
		srv, _ := newTestServer(t)

		w := srv.do(http.MethodGet, "/api/forms", "https://dash.example.com", "")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRouter_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	w := srv.do(http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRouter_WidgetLoader(t *testing.T) {
	srv, _ := newTestServer(t)

	w := srv.do(http.MethodGet, "/widget.js", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "widget.wasm")

	w = srv.do(http.MethodGet, "/widget.wasm", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
