// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsBlockedIP(t *testing.T) {
	tests := []struct {
		ip      string
		blocked bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.20.0.1", true},
		{"192.168.1.10", true},
		{"169.254.169.254", true},
		{"100.64.0.1", true},
		{"::1", true},
		{"fd00::1", true},
		{"fe80::1", true},
		{"8.8.8.8", false},
		{"93.184.216.34", false},
		{"2606:4700:4700::1111", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := isBlockedIP(net.ParseIP(tt.ip)); got != tt.blocked {
				t.Errorf("isBlockedIP(%s) = %v, want %v", tt.ip, got, tt.blocked)
			}
		})
	}

	if !isBlockedIP(nil) {
		t.Error("nil IP should be blocked")
	}
}

func TestGuardedDial_BlocksLoopback(t *testing.T) {
	dial := guardedDial(&net.Dialer{Timeout: time.Second}, net.DefaultResolver)

	_, err := dial(context.Background(), "tcp", "127.0.0.1:80")
	if !errors.Is(err, ErrBlockedAddress) {
		t.Errorf("err = %v, want ErrBlockedAddress", err)
	}

	_, err = dial(context.Background(), "tcp", "no-port")
	if err == nil {
		t.Error("expected error for address without port")
	}
}

func TestDelivery_PrivateTargetBlocked(t *testing.T) {
	hit := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hit <- struct{}{}
	}))
	defer srv.Close()

	d := NewDispatcher(Config{URL: srv.URL, Workers: 1}, nil)
	result := d.attemptDelivery(context.Background(), &QueuedDelivery{Event: "test", Payload: []byte(`{}`)})

	if result.Success {
		t.Fatal("delivery to loopback should fail")
	}
	if !errors.Is(result.Error, ErrBlockedAddress) {
		t.Errorf("err = %v, want ErrBlockedAddress", result.Error)
	}
	select {
	case <-hit:
		t.Error("server should not have been contacted")
	default:
	}
}

func TestDelivery_RedirectNotFollowed(t *testing.T) {
	var redirected bool
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		redirected = true
	}))
	defer target.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer srv.Close()

	d := NewDispatcher(Config{URL: srv.URL, Workers: 1, AllowPrivate: true}, nil)
	result := d.attemptDelivery(context.Background(), &QueuedDelivery{Event: "test", Payload: []byte(`{}`)})

	if result.Success {
		t.Error("a redirect should count as a failed delivery")
	}
	if result.StatusCode != http.StatusFound {
		t.Errorf("StatusCode = %d, want 302", result.StatusCode)
	}
	if redirected {
		t.Error("redirect target should not be contacted")
	}
}
