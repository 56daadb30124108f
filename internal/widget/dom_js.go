// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build js && wasm

package widget

import (
	"context"
	"strconv"
	"syscall/js"
)

const styleElementID = "userbird-styles"

const widgetCSS = `
.userbird-backdrop { display: none; position: fixed; inset: 0; background: rgba(0, 0, 0, 0.5); z-index: 9999; }
.userbird-backdrop.open { display: block; }
.userbird-modal { display: none; position: fixed; z-index: 10000; background: white; border-radius: 8px;
  box-shadow: 0 4px 6px -1px rgb(0 0 0 / 0.1), 0 2px 4px -2px rgb(0 0 0 / 0.1);
  width: 400px; max-width: calc(100vw - 2rem); padding: 1rem; }
.userbird-modal.open { display: block; }
.userbird-title { font-size: 1.125rem; font-weight: 600; margin: 0 0 1rem; }
.userbird-textarea { width: 100%; min-height: 100px; margin: 1rem 0; padding: 0.5rem; border: 1px solid #e5e7eb;
  border-radius: 6px; resize: vertical; font-family: inherit; font-size: 14px; box-sizing: border-box; }
.userbird-button { background: #1f2937; color: white; border: none; padding: 0.5rem 1rem; border-radius: 6px;
  cursor: pointer; font-family: inherit; font-size: 14px; }
.userbird-button:hover { background: #374151; }
.userbird-button:disabled { opacity: 0.5; cursor: not-allowed; }
.userbird-close { background: transparent; border: 1px solid #e5e7eb; color: #6b7280; }
.userbird-close:hover { background: #f3f4f6; }
.userbird-buttons { display: flex; justify-content: flex-end; gap: 0.5rem; }
.userbird-error { color: #dc2626; font-size: 0.875rem; margin-top: 0.5rem; display: none; }
.userbird-success { display: none; text-align: center; padding: 2rem 1rem; }
.userbird-success.open { display: block; }
.userbird-success-icon { width: 48px; height: 48px; margin: 0 auto 1rem; color: #22c55e; }
.userbird-success-title { font-size: 1.125rem; font-weight: 600; margin-bottom: 0.5rem; }
.userbird-success-message { color: #6b7280; font-size: 0.875rem; margin-bottom: 1.5rem; }
`

const modalHTML = `
<h3 class="userbird-title">Send Feedback</h3>
<textarea class="userbird-textarea" placeholder="What's on your mind?"></textarea>
<div class="userbird-error"></div>
<div class="userbird-buttons">
  <button type="button" class="userbird-button userbird-close">Cancel</button>
  <button type="button" class="userbird-button userbird-submit">Send Feedback</button>
</div>
<div class="userbird-success">
  <svg class="userbird-success-icon" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
    <path d="M22 11.08V12a10 10 0 1 1-5.93-9.14" stroke-linecap="round" stroke-linejoin="round"/>
    <path d="M22 4L12 14.01l-3-3" stroke-linecap="round" stroke-linejoin="round"/>
  </svg>
  <h3 class="userbird-success-title">Thank you for your feedback!</h3>
  <p class="userbird-success-message">Your message has been received and will be reviewed by our team.</p>
  <button type="button" class="userbird-button userbird-close">Close</button>
</div>
`

// DOMView renders the widget into the host page.
type DOMView struct {
	window   js.Value
	document js.Value

	trigger  js.Value
	backdrop js.Value
	modal    js.Value
	textarea js.Value
	submit   js.Value
	errorEl  js.Value
	success  js.Value
	closers  []js.Value

	funcs []js.Func
}

// NewDOMView creates a view bound to the global document.
func NewDOMView() *DOMView {
	window := js.Global()
	return &DOMView{
		window:   window,
		document: window.Get("document"),
	}
}

// Attach implements View.
func (v *DOMView) Attach(triggerID string) error {
	trigger := v.document.Call("getElementById", triggerID)
	if !trigger.Truthy() {
		return ErrTriggerNotFound
	}
	v.trigger = trigger

	v.injectStyles()

	body := v.document.Get("body")

	v.backdrop = v.document.Call("createElement", "div")
	v.backdrop.Set("className", "userbird-backdrop")

	v.modal = v.document.Call("createElement", "div")
	v.modal.Set("className", "userbird-modal")
	v.modal.Call("setAttribute", "role", "dialog")
	v.modal.Set("innerHTML", modalHTML)

	body.Call("appendChild", v.backdrop)
	body.Call("appendChild", v.modal)

	v.textarea = v.modal.Call("querySelector", ".userbird-textarea")
	v.submit = v.modal.Call("querySelector", ".userbird-submit")
	v.errorEl = v.modal.Call("querySelector", ".userbird-error")
	v.success = v.modal.Call("querySelector", ".userbird-success")

	closers := v.modal.Call("querySelectorAll", ".userbird-close")
	for i := 0; i < closers.Length(); i++ {
		v.closers = append(v.closers, closers.Index(i))
	}

	return nil
}

func (v *DOMView) injectStyles() {
	if v.document.Call("getElementById", styleElementID).Truthy() {
		return
	}
	style := v.document.Call("createElement", "style")
	style.Set("id", styleElementID)
	style.Set("textContent", widgetCSS)
	v.document.Get("head").Call("appendChild", style)
}

// Bind wires DOM events to c. Submissions run on their own goroutine so the
// browser event loop is never blocked on the network.
func (v *DOMView) Bind(c *Controller) {
	v.listen(v.trigger, "click", func(e js.Value) {
		e.Call("preventDefault")
		e.Call("stopPropagation")
		c.Open()
	})
	v.listen(v.backdrop, "click", func(js.Value) { c.Close() })
	for _, el := range v.closers {
		v.listen(el, "click", func(js.Value) { c.Close() })
	}
	v.listen(v.submit, "click", func(js.Value) {
		go c.Submit(context.Background())
	})
	v.listen(v.document, "keydown", func(e js.Value) {
		c.HandleKey(e.Get("key").String())
	})
}

func (v *DOMView) listen(target js.Value, event string, fn func(e js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	v.funcs = append(v.funcs, f)
	target.Call("addEventListener", event, f)
}

// Show implements View.
func (v *DOMView) Show() {
	v.backdrop.Get("classList").Call("add", "open")
	v.modal.Get("classList").Call("add", "open")
}

// Hide implements View.
func (v *DOMView) Hide() {
	v.backdrop.Get("classList").Call("remove", "open")
	v.modal.Get("classList").Call("remove", "open")
}

// Focus implements View.
func (v *DOMView) Focus() { v.textarea.Call("focus") }

// Message implements View.
func (v *DOMView) Message() string { return v.textarea.Get("value").String() }

// ClearInput implements View.
func (v *DOMView) ClearInput() { v.textarea.Set("value", "") }

// SetSubmitting implements View.
func (v *DOMView) SetSubmitting(submitting bool) {
	v.submit.Set("disabled", submitting)
	if submitting {
		v.submit.Set("textContent", LabelPending)
	} else {
		v.submit.Set("textContent", LabelSubmit)
	}
}

// ShowError implements View.
func (v *DOMView) ShowError(message string) {
	v.errorEl.Set("textContent", message)
	v.errorEl.Get("style").Set("display", "block")
}

// HideError implements View.
func (v *DOMView) HideError() {
	v.errorEl.Get("style").Set("display", "none")
}

// SetSuccess implements View.
func (v *DOMView) SetSuccess(success bool) {
	if success {
		v.success.Get("classList").Call("add", "open")
		v.textarea.Get("style").Set("display", "none")
		v.submit.Get("style").Set("display", "none")
		return
	}
	v.success.Get("classList").Call("remove", "open")
	v.textarea.Get("style").Set("display", "block")
	v.submit.Get("style").Set("display", "inline-flex")
}

// TriggerRect implements View.
func (v *DOMView) TriggerRect() Rect { return rectOf(v.trigger) }

// ModalRect implements View.
func (v *DOMView) ModalRect() Rect { return rectOf(v.modal) }

// Viewport implements View.
func (v *DOMView) Viewport() Size {
	return Size{
		Width:  v.window.Get("innerWidth").Float(),
		Height: v.window.Get("innerHeight").Float(),
	}
}

// Place implements View.
func (v *DOMView) Place(p Placement) {
	style := v.modal.Get("style")
	if p.Vertical == Centered {
		style.Set("top", "50%")
		style.Set("transform", "translateY(-50%)")
	} else {
		style.Set("top", px(p.Top))
		style.Set("transform", "none")
	}
	style.Set("left", px(p.Left))
}

// Release frees the event callbacks. The view must not be used afterwards.
func (v *DOMView) Release() {
	for _, f := range v.funcs {
		f.Release()
	}
	v.funcs = nil
}

func rectOf(el js.Value) Rect {
	r := el.Call("getBoundingClientRect")
	return Rect{
		Top:    r.Get("top").Float(),
		Left:   r.Get("left").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}

func px(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "px"
}
