// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/olegiv/userbird/internal/model"
	"github.com/olegiv/userbird/internal/store"
)

// Dispatcher queues events and delivers them from a small worker pool.
type Dispatcher struct {
	url     string
	secret  string
	client  *http.Client
	logger  *slog.Logger
	queue   chan *QueuedDelivery
	workers int
	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.RWMutex
	running bool
}

// QueuedDelivery represents a delivery queued for processing.
type QueuedDelivery struct {
	Event   string
	Payload []byte
}

// Config holds dispatcher configuration.
type Config struct {
	URL       string        // Endpoint that receives events
	Secret    string        // HMAC key for X-Webhook-Signature
	Workers   int           // Number of concurrent delivery workers
	QueueSize int           // Buffered events before new ones are dropped
	Timeout   time.Duration // Per-request timeout

	// AllowPrivate permits targets on private and loopback addresses.
	AllowPrivate bool
}

// DefaultConfig returns default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		Workers:   3,
		QueueSize: 100,
		Timeout:   RequestTimeout,
	}
}

// NewDispatcher creates a new webhook dispatcher.
func NewDispatcher(cfg Config, logger *slog.Logger) *Dispatcher {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		url:     cfg.URL,
		secret:  cfg.Secret,
		client:  newHTTPClient(cfg.Timeout, cfg.AllowPrivate),
		logger:  logger,
		queue:   make(chan *QueuedDelivery, cfg.QueueSize),
		workers: cfg.Workers,
		done:    make(chan struct{}),
	}
}

// Start starts the dispatcher workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.logger.Info("starting webhook dispatcher", "workers", d.workers)

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Stop stops the dispatcher and waits for in-flight deliveries to finish.
// Events still queued are discarded.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.done)
	d.wg.Wait()
	d.logger.Info("webhook dispatcher stopped")
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.done:
			return
		case <-ctx.Done():
			return
		case delivery := <-d.queue:
			d.logger.Debug("webhook worker processing delivery", "worker_id", id, "event", delivery.Event)
			d.processDelivery(ctx, delivery)
		}
	}
}

// Dispatch enqueues an event without blocking. It returns false when the
// dispatcher is stopped or the queue is full; the event is dropped.
func (d *Dispatcher) Dispatch(event *Event) bool {
	d.mu.RLock()
	running := d.running
	d.mu.RUnlock()

	if !running {
		d.logger.Warn("webhook dispatcher not running, event dropped",
			"event_type", event.Type, "category", model.EventCategoryWebhook)
		return false
	}

	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("failed to marshal webhook payload", "error", err, "event_type", event.Type)
		return false
	}

	select {
	case d.queue <- &QueuedDelivery{Event: event.Type, Payload: payload}:
		return true
	default:
		d.logger.Warn("webhook queue full, event dropped",
			"event_type", event.Type, "category", model.EventCategoryWebhook)
		return false
	}
}

// NotifyFeedback enqueues a feedback.submitted event for a stored row.
func (d *Dispatcher) NotifyFeedback(fb store.Feedback) {
	d.Dispatch(NewFeedbackEvent(fb))
}

// GenerateSignature generates an HMAC-SHA256 signature for the payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature verifies an HMAC-SHA256 signature.
func VerifySignature(payload []byte, signature, secret string) bool {
	expectedSig := GenerateSignature(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expectedSig))
}
