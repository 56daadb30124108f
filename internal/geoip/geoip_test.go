// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_Disabled(t *testing.T) {
	g, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = g.Close() }()

	if g.Enabled() {
		t.Error("lookup without a database should be disabled")
	}
	if got := g.Country("8.8.8.8"); got != "" {
		t.Errorf("Country = %q, want empty", got)
	}
	if err := g.Reload(); err != nil {
		t.Errorf("Reload: %v", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.mmdb")); err == nil {
		t.Error("expected error for missing database")
	}

	bad := filepath.Join(t.TempDir(), "bad.mmdb")
	if err := os.WriteFile(bad, []byte("not a maxmind database"), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := Open(bad)
	if err == nil {
		t.Fatal("expected error for corrupt database")
	}
	if g.Enabled() {
		t.Error("corrupt database should leave lookups disabled")
	}
}

func TestCountry_NoDatabase(t *testing.T) {
	var g Lookup

	for _, ip := range []string{"127.0.0.1", "10.0.0.5", "1.1.1.1", "not-an-ip", ""} {
		if got := g.Country(ip); got != "" {
			t.Errorf("Country(%q) = %q, want empty without a database", ip, got)
		}
	}
}

func TestIsLocal(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.0.0.5", true},
		{"192.168.1.1", true},
		{"169.254.1.1", true},
		{"0.0.0.0", true},
		{"::1", true},
		{"fd12::1", true},
		{"1.1.1.1", false},
		{"2606:4700:4700::1111", false},
	}

	for _, tt := range tests {
		if got := isLocal(net.ParseIP(tt.ip)); got != tt.want {
			t.Errorf("isLocal(%s) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}
