// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package gate implements the content access gate. The server side
// decides how much of an article body an unauthenticated reader
// receives (Preview); the Machine type encodes the client overlay
// contract: Locked → PreviewVisible → GateTriggered → Unlocked, with
// the trigger firing exactly once per session.
package gate

import (
	"orthopress/internal/models"
)

// PreviewBlocks is how many body blocks an unauthenticated reader sees.
const PreviewBlocks = 3

// ScrollThresholdPx is the scroll distance past which a scroll signal
// counts as engagement. Wheel, touch, and qualifying key signals count
// regardless of distance.
const ScrollThresholdPx = 24

// State is the gate's position in its lifecycle.
type State string

const (
	StateLocked         State = "locked"
	StatePreviewVisible State = "preview_visible"
	StateGateTriggered  State = "gate_triggered"
	StateUnlocked       State = "unlocked"
)

// Signal is a reader-engagement event reported to the machine.
type Signal int

const (
	// SignalScrollEnd fires when the observer reports the reader reached
	// the end of the visible preview block.
	SignalScrollEnd Signal = iota
	// SignalScroll carries a pixel delta; it qualifies only past
	// ScrollThresholdPx.
	SignalScroll
	// SignalWheel is any wheel event.
	SignalWheel
	// SignalTouch is any touch event.
	SignalTouch
	// SignalKeyDown is a qualifying key press (arrows, page keys, space).
	SignalKeyDown
)

// Machine tracks the gate lifecycle for one article view.
type Machine struct {
	state State
}

// NewMachine returns a machine in Unlocked when a valid session is
// present at mount, otherwise Locked. An invalid or expired token is
// the caller's problem: it must pass hasSession=false.
func NewMachine(hasSession bool) *Machine {
	if hasSession {
		return &Machine{state: StateUnlocked}
	}
	return &Machine{state: StateLocked}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Load marks the preview as rendered. Only meaningful from Locked.
func (m *Machine) Load() {
	if m.state == StateLocked {
		m.state = StatePreviewVisible
	}
}

// Observe reports an engagement signal. It returns true exactly once —
// on the transition into GateTriggered. Signals while Unlocked, still
// Locked, or already triggered are ignored.
func (m *Machine) Observe(sig Signal, scrollDeltaPx int) bool {
	if m.state != StatePreviewVisible {
		return false
	}
	if sig == SignalScroll && scrollDeltaPx < ScrollThresholdPx {
		return false
	}
	m.state = StateGateTriggered
	return true
}

// Authenticate unlocks the gate after a successful login, verified
// signup, or Google sign-in. The overlay never reappears afterwards.
func (m *Machine) Authenticate() {
	m.state = StateUnlocked
}

// Preview returns the preview projection of a body: its first
// PreviewBlocks blocks. The full list comes back unchanged when it is
// already short enough.
func Preview(blocks models.BlockList) models.BlockList {
	if len(blocks) <= PreviewBlocks {
		return blocks
	}
	return blocks[:PreviewBlocks]
}

// Project applies the gating contract to a body: authenticated readers
// get everything, everyone else the preview. The second return reports
// whether content was withheld.
func Project(blocks models.BlockList, authenticated bool) (models.BlockList, bool) {
	if authenticated {
		return blocks, false
	}
	preview := Preview(blocks)
	return preview, len(preview) < len(blocks)
}
