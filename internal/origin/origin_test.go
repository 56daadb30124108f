// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package origin

import "testing"

func TestIsAuthorized(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		registered string
		want       bool
	}{
		{"exact host", "https://example.com", "example.com", true},
		{"origin upper case", "http://EXAMPLE.com", "example.com", true},
		{"registered upper case", "https://example.com", "Example.COM", true},
		{"different host", "https://evil.com", "example.com", false},
		{"subdomain not matched", "https://www.example.com", "example.com", false},
		{"parent not matched", "https://example.com", "www.example.com", false},
		{"suffix not matched", "https://notexample.com", "example.com", false},
		{"port ignored for non-localhost", "https://example.com:8443", "example.com", true},
		{"registered port never matches non-localhost", "https://example.com:8443", "example.com:8443", false},
		{"localhost with port", "http://localhost:3000", "localhost:3000", true},
		{"localhost port mismatch", "http://localhost:3000", "localhost:4000", false},
		{"localhost port required", "http://localhost:3000", "localhost", false},
		{"localhost without port", "http://localhost", "localhost", true},
		{"localhost without port vs registered port", "http://localhost", "localhost:3000", false},
		{"localhost default http port", "http://localhost:80", "localhost", true},
		{"localhost default https port", "https://localhost:443", "localhost", true},
		{"localhost default port vs registered port", "http://localhost:80", "localhost:80", false},
		{"localhost https on port 80", "https://localhost:80", "localhost:80", true},
		{"localhost mixed case", "http://LocalHost:3000", "LOCALHOST:3000", true},
		{"ip address", "http://127.0.0.1:8080", "127.0.0.1", true},
		{"not a url", "not a url", "example.com", false},
		{"empty origin", "", "example.com", false},
		{"null origin", "null", "null", false},
		{"scheme only", "https://", "", false},
		{"bad escape", "http://exa%zzmple.com", "example.com", false},
		{"empty registered", "https://example.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthorized(tt.origin, tt.registered); got != tt.want {
				t.Errorf("IsAuthorized(%q, %q) = %v, want %v", tt.origin, tt.registered, got, tt.want)
			}
		})
	}
}

func FuzzIsAuthorized(f *testing.F) {
	f.Add("https://example.com", "example.com")
	f.Add("http://localhost:3000", "localhost:3000")
	f.Add("not a url", "anything")

	f.Fuzz(func(t *testing.T, origin, registered string) {
		// Must never panic, and a match implies the registered URL is non-empty.
		if IsAuthorized(origin, registered) && registered == "" {
			t.Errorf("IsAuthorized(%q, %q) matched an empty registration", origin, registered)
		}
	})
}
