// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build js && wasm

// Command widget is the WebAssembly build of the embeddable feedback widget.
// The page configures it through window.UserBird before loading widget.js:
//
//	window.UserBird = { formId: "abc123" };
//
// triggerId overrides the default trigger element id and apiBase the server
// URL, which otherwise defaults to where widget.js was loaded from.
package main

import (
	"log/slog"
	"os"
	"syscall/js"

	"github.com/olegiv/userbird/internal/widget"
)

// defaultAPIBase is used when the page sets no apiBase; injected via ldflags.
var defaultAPIBase = ""

func stringProp(v js.Value, name string) string {
	if !v.Truthy() {
		return ""
	}
	p := v.Get(name)
	if p.Type() != js.TypeString {
		return ""
	}
	return p.String()
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	global := js.Global()
	settings := global.Get("UserBird")

	cfg := widget.Config{
		FormID:    stringProp(settings, "formId"),
		TriggerID: stringProp(settings, "triggerId"),
	}

	apiBase := stringProp(settings, "apiBase")
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	origin := global.Get("location").Get("origin").String()

	view := widget.NewDOMView()
	c, err := widget.Init(cfg, view, widget.NewClient(apiBase, origin), logger)
	if err != nil {
		// Init already logged; leave the page untouched.
		return
	}
	view.Bind(c)

	// Keep the event callbacks alive for the lifetime of the page.
	select {}
}
