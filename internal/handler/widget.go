// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

// Widget asset file names.
const (
	WidgetWasmFile    = "widget.wasm"
	WidgetRuntimeFile = "wasm_exec.js"
)

// WidgetHandler serves the embeddable widget to third-party pages: the
// loader script from the binary and the wasm build from dir.
type WidgetHandler struct {
	loader []byte
	dir    string
}

// NewWidgetHandler reads the loader from assets at loaderPath.
func NewWidgetHandler(assets fs.FS, loaderPath, dir string) (*WidgetHandler, error) {
	loader, err := fs.ReadFile(assets, loaderPath)
	if err != nil {
		return nil, err
	}
	return &WidgetHandler{loader: loader, dir: dir}, nil
}

func setWidgetHeaders(w http.ResponseWriter, contentType string) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Cache-Control", "public, max-age=300")
	h.Set("X-Content-Type-Options", "nosniff")
}

// Loader handles GET /widget.js.
func (h *WidgetHandler) Loader(w http.ResponseWriter, r *http.Request) {
	setWidgetHeaders(w, "application/javascript; charset=utf-8")
	_, _ = w.Write(h.loader)
}

// Wasm handles GET /widget.wasm.
func (h *WidgetHandler) Wasm(w http.ResponseWriter, r *http.Request) {
	h.serveBuilt(w, r, WidgetWasmFile, "application/wasm")
}

// Runtime handles GET /wasm_exec.js.
func (h *WidgetHandler) Runtime(w http.ResponseWriter, r *http.Request) {
	h.serveBuilt(w, r, WidgetRuntimeFile, "application/javascript; charset=utf-8")
}

// serveBuilt serves one of the fixed build artifacts; name never comes from
// the request.
func (h *WidgetHandler) serveBuilt(w http.ResponseWriter, r *http.Request, name, contentType string) {
	path := filepath.Join(h.dir, name)
	if _, err := os.Stat(path); err != nil {
		slog.Warn("widget asset missing", "path", path, "error", err)
		http.NotFound(w, r)
		return
	}
	setWidgetHeaders(w, contentType)
	http.ServeFile(w, r, path)
}
