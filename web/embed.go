// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the browser-side assets served by the Userbird server.
package web

import "embed"

// Static holds the widget loader script. The wasm module itself is built
// separately and served from disk.
//
//go:embed static/widget.js
var Static embed.FS

// LoaderPath is the loader's path inside Static.
const LoaderPath = "static/widget.js"
