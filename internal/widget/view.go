// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package widget

// View is the rendering surface a Controller drives. The browser
// implementation is DOMView; tests use an in-memory fake.
type View interface {
	// Attach locates the trigger element and builds the modal. It returns
	// ErrTriggerNotFound when the trigger is missing.
	Attach(triggerID string) error

	Show()
	Hide()
	Focus()

	// Message returns the current input value.
	Message() string
	ClearInput()

	// SetSubmitting disables the submit control and shows the pending label,
	// or re-enables it with the default label.
	SetSubmitting(submitting bool)

	ShowError(message string)
	HideError()

	// SetSuccess shows the success panel and hides the input and submit
	// control, or the reverse.
	SetSuccess(success bool)

	TriggerRect() Rect
	ModalRect() Rect
	Viewport() Size
	Place(p Placement)
}
