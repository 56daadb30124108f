// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package widget

import "math"

// Margin is the gap kept between the modal and the trigger or viewport edges.
const Margin = 8

// Rect is an element's bounding box in viewport coordinates.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Size is a viewport size.
type Size struct {
	Width  float64
	Height float64
}

// Vertical is where the modal sits relative to the trigger.
type Vertical int

// Vertical placements.
const (
	Below Vertical = iota
	Above
	Centered
)

func (v Vertical) String() string {
	switch v {
	case Below:
		return "below"
	case Above:
		return "above"
	default:
		return "centered"
	}
}

// Placement is the computed modal position. Top is unused when Vertical is
// Centered; the modal is then centered in the viewport.
type Placement struct {
	Vertical Vertical
	Top      float64
	Left     float64
}

// Position places the modal below the trigger when it fits, otherwise above,
// otherwise vertically centered. Horizontally it follows the trigger's left
// edge, clamped to stay Margin away from both viewport edges.
func Position(trigger, modal Rect, viewport Size) Placement {
	var p Placement

	spaceBelow := viewport.Height - trigger.Bottom()
	spaceAbove := trigger.Top

	switch {
	case spaceBelow >= modal.Height+Margin:
		p.Vertical = Below
		p.Top = trigger.Bottom() + Margin
	case spaceAbove >= modal.Height+Margin:
		p.Vertical = Above
		p.Top = trigger.Top - modal.Height - Margin
	default:
		p.Vertical = Centered
	}

	p.Left = math.Min(math.Max(Margin, trigger.Left), viewport.Width-modal.Width-Margin)
	return p
}
