// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/olegiv/userbird/internal/model"
)

// Delivery configuration constants
const (
	RequestTimeout = 10 * time.Second // HTTP request timeout
	MaxResponseLen = 4 * 1024         // Maximum response body read for logging
	UserAgent      = "Userbird/1.0"   // User-Agent header value
)

// DeliveryResult represents the result of a delivery attempt.
type DeliveryResult struct {
	Success      bool
	StatusCode   int
	ResponseBody string
	Error        error
}

func newHTTPClient(timeout time.Duration, allowPrivate bool) *http.Client {
	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext:         dialer.DialContext,
	}
	if !allowPrivate {
		transport.DialContext = guardedDial(dialer, net.DefaultResolver)
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		// Redirects could point a public hook at an internal address.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// processDelivery makes a single delivery attempt and logs the outcome.
func (d *Dispatcher) processDelivery(ctx context.Context, delivery *QueuedDelivery) {
	result := d.attemptDelivery(ctx, delivery)
	if result.Success {
		d.logger.Info("webhook delivered",
			"event", delivery.Event,
			"status_code", result.StatusCode)
		return
	}

	d.logger.Warn("webhook delivery failed",
		"event", delivery.Event,
		"status_code", result.StatusCode,
		"error", result.Error,
		"category", model.EventCategoryWebhook)
}

// attemptDelivery performs the actual HTTP POST request.
func (d *Dispatcher) attemptDelivery(ctx context.Context, delivery *QueuedDelivery) DeliveryResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(delivery.Payload))
	if err != nil {
		return DeliveryResult{Error: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Webhook-Signature", GenerateSignature(delivery.Payload, d.secret))
	req.Header.Set("X-Webhook-Event", delivery.Event)

	resp, err := d.client.Do(req)
	if err != nil {
		return DeliveryResult{Error: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return DeliveryResult{
			Success:      true,
			StatusCode:   resp.StatusCode,
			ResponseBody: string(body),
		}
	}

	return DeliveryResult{
		StatusCode:   resp.StatusCode,
		ResponseBody: string(body),
		Error:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
