// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model contains domain models and constants for the application.
package model

import (
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// TriggerIDPrefix prefixes the DOM id of the host-page element that opens the widget.
const TriggerIDPrefix = "userbird-trigger-"

// MaxFormURLLength is the maximum accepted length of a registered form URL.
const MaxFormURLLength = 253 + len(":65535")

// Form URL validation errors.
var (
	ErrFormURLRequired = errors.New("please enter a URL")
	ErrFormURLInvalid  = errors.New("please enter a valid URL")
)

// NewFormID returns a new opaque form identifier.
func NewFormID() string {
	return uuid.NewString()
}

// TriggerID returns the DOM id the widget looks for on the host page.
func TriggerID(formID string) string {
	return TriggerIDPrefix + formID
}

// NormalizeFormURL validates a registered form URL and returns its stored form.
// The URL must be a bare hostname or "hostname:port"; it is lower-cased because
// origin matching is case-insensitive.
func NormalizeFormURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrFormURLRequired
	}
	if len(raw) > MaxFormURLLength || strings.ContainsAny(raw, "/?#@ \\") {
		return "", ErrFormURLInvalid
	}

	u, err := url.Parse("https://" + raw)
	if err != nil || u.Hostname() == "" {
		return "", ErrFormURLInvalid
	}

	if port := u.Port(); port != "" {
		for _, c := range port {
			if c < '0' || c > '9' {
				return "", ErrFormURLInvalid
			}
		}
	}

	return strings.ToLower(u.Host), nil
}
