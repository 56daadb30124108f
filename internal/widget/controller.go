// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package widget implements the embeddable feedback widget: the modal state
// machine, its positioning, and the submission client.
package widget

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Submit control labels.
const (
	LabelSubmit  = "Send Feedback"
	LabelPending = "Sending..."
)

// ResetDelay is how long after Close the state returns to normal, so the
// closing transition does not flash the input view.
const ResetDelay = 150 * time.Millisecond

// TriggerIDPrefix prefixes the default trigger element id.
const TriggerIDPrefix = "userbird-trigger-"

// Initialization errors.
var (
	ErrNoFormID        = errors.New("no form ID provided")
	ErrTriggerNotFound = errors.New("trigger element not found")
)

// State is the modal state.
type State int

// Modal states. An error is a flag shown on top of StateNormal.
const (
	StateNormal State = iota
	StateSuccess
)

func (s State) String() string {
	if s == StateSuccess {
		return "success"
	}
	return "normal"
}

// Config configures one widget instance.
type Config struct {
	FormID string
	// TriggerID overrides the default "userbird-trigger-<FormID>".
	TriggerID string
}

// TriggerElementID returns the DOM id of the element that opens the modal.
func (c Config) TriggerElementID() string {
	if c.TriggerID != "" {
		return c.TriggerID
	}
	return TriggerIDPrefix + c.FormID
}

// Submitter sends a feedback message.
type Submitter interface {
	Submit(ctx context.Context, formID, message string) (Response, error)
}

// Controller is the modal state machine for one form. Several controllers
// can coexist on a page.
type Controller struct {
	cfg       Config
	view      View
	submitter Submitter
	logger    *slog.Logger

	// afterFunc schedules the post-close reset; replaced in tests.
	afterFunc func(d time.Duration, f func())

	mu       sync.Mutex
	state    State
	open     bool
	pending  bool
	errorMsg string
	// session increments on every Close so a submission that completes
	// after its modal was closed does not touch the next session.
	session uint64
}

// Init validates cfg, attaches view to the trigger element and returns a
// controller in the closed, normal state. Errors are also logged.
func Init(cfg Config, view View, submitter Submitter, logger *slog.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.FormID == "" {
		logger.Error("widget init failed", "error", ErrNoFormID)
		return nil, ErrNoFormID
	}

	triggerID := cfg.TriggerElementID()
	if err := view.Attach(triggerID); err != nil {
		logger.Error("widget init failed", "error", err, "trigger_id", triggerID)
		return nil, err
	}

	logger.Debug("widget initialized", "form_id", cfg.FormID, "trigger_id", triggerID)

	return &Controller{
		cfg:       cfg,
		view:      view,
		submitter: submitter,
		logger:    logger,
		afterFunc: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}, nil
}

// State returns the current modal state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsOpen reports whether the modal is shown.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// ErrorMessage returns the error shown in the modal, or "".
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMsg
}

// Open shows the modal in the normal state, positioned next to the trigger.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.Show()
	c.open = true
	c.setStateLocked(StateNormal)
	c.view.Place(Position(c.view.TriggerRect(), c.view.ModalRect(), c.view.Viewport()))
	c.view.Focus()
}

// Submit sends the current message. A blank message is ignored, as is a
// submit while another one is pending. Failures are shown in the modal and
// never returned.
func (c *Controller) Submit(ctx context.Context) {
	c.mu.Lock()
	message := strings.TrimSpace(c.view.Message())
	if message == "" || c.pending {
		c.mu.Unlock()
		return
	}
	c.pending = true
	c.view.SetSubmitting(true)
	c.hideErrorLocked()
	session := c.session
	c.mu.Unlock()

	_, err := c.submitter.Submit(ctx, c.cfg.FormID, message)

	c.mu.Lock()
	defer c.mu.Unlock()

	if session != c.session {
		c.logger.Debug("submission finished after close", "form_id", c.cfg.FormID, "error", err)
		return
	}
	c.pending = false

	if err != nil {
		c.logger.Error("failed to submit feedback", "error", err, "form_id", c.cfg.FormID)
		c.errorMsg = errorText(err)
		c.view.ShowError(c.errorMsg)
		c.view.SetSubmitting(false)
		return
	}

	c.setStateLocked(StateSuccess)
}

// Close hides the modal, clears the input and error, and restores the
// submit control. The state returns to normal after ResetDelay. Calling
// Close on a closed modal leaves the view unchanged.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.Hide()
	c.open = false
	c.view.ClearInput()
	c.pending = false
	c.view.SetSubmitting(false)
	c.hideErrorLocked()
	c.session++

	session := c.session
	c.afterFunc(ResetDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.session == session && !c.open {
			c.setStateLocked(StateNormal)
		}
	})
}

// HandleKey closes an open modal on Escape.
func (c *Controller) HandleKey(key string) {
	if key == "Escape" && c.IsOpen() {
		c.Close()
	}
}

func (c *Controller) setStateLocked(s State) {
	c.state = s
	c.view.SetSuccess(s == StateSuccess)
}

func (c *Controller) hideErrorLocked() {
	c.errorMsg = ""
	c.view.HideError()
}

// errorText returns the message shown to the user for a failed submission.
func errorText(err error) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	return MsgSubmitFailed
}
