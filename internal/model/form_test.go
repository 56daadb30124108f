// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"testing"
)

func TestNormalizeFormURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"bare host", "example.com", "example.com", nil},
		{"mixed case", "Example.COM", "example.com", nil},
		{"localhost with port", "localhost:3000", "localhost:3000", nil},
		{"surrounding space", "  example.com ", "example.com", nil},
		{"empty", "", "", ErrFormURLRequired},
		{"blank", "   ", "", ErrFormURLRequired},
		{"with scheme", "https://example.com", "", ErrFormURLInvalid},
		{"with path", "example.com/feedback", "", ErrFormURLInvalid},
		{"with query", "example.com?x=1", "", ErrFormURLInvalid},
		{"with userinfo", "user@example.com", "", ErrFormURLInvalid},
		{"bad port", "example.com:abc", "", ErrFormURLInvalid},
		{"only port", ":8080", "", ErrFormURLInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeFormURL(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NormalizeFormURL(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeFormURL(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeFormURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewFormID()
		if id == "" {
			t.Fatal("NewFormID returned empty id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestTriggerID(t *testing.T) {
	if got := TriggerID("abc"); got != "userbird-trigger-abc" {
		t.Errorf("TriggerID = %q", got)
	}
}
