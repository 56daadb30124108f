// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package origin decides whether a request origin may submit feedback for a
// registered form.
package origin

import (
	"net/url"
	"strings"
)

const localhost = "localhost"

// IsAuthorized reports whether origin (scheme://host[:port], as sent in the
// Origin header) matches the form's registered URL.
//
// Localhost origins must match "localhost:<port>" (or "localhost" when the
// origin has no port). For every other host only the hostname is compared and
// the port is ignored. Matching is exact and case-insensitive; unparseable
// origins are rejected. A default port (80 for http, 443 for https) counts as
// no port, matching how URLs serialize it.
func IsAuthorized(origin, registeredURL string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return false
	}
	registered := strings.ToLower(registeredURL)

	if hostname == localhost {
		expected := localhost
		if port := u.Port(); port != "" && !isDefaultPort(u.Scheme, port) {
			expected = localhost + ":" + port
		}
		return registered == expected
	}

	return hostname == registered
}

func isDefaultPort(scheme, port string) bool {
	switch strings.ToLower(scheme) {
	case "http", "ws":
		return port == "80"
	case "https", "wss":
		return port == "443"
	}
	return false
}
