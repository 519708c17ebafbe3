package render

import (
	"github.com/aretw0/dagview/pkg/domain"
)

// Transition is a change between interaction modes.
type Transition struct {
	From domain.Mode
	To   domain.Mode
}

// EntersPreview reports whether the transition lands in Preview from another mode.
func (t Transition) EntersPreview() bool {
	return t.From != domain.ModePreview && t.To == domain.ModePreview
}

// ModeMachine holds the interaction mode of a diagram. It starts in Preview
// and only changes on explicit commands.
type ModeMachine struct {
	mode domain.Mode
}

// NewModeMachine returns a machine in Preview.
func NewModeMachine() *ModeMachine {
	return &ModeMachine{mode: domain.ModePreview}
}

// Mode returns the current mode.
func (m *ModeMachine) Mode() domain.Mode {
	return m.mode
}

// Next returns the transition Toggle would make, without making it.
func (m *ModeMachine) Next() Transition {
	if m.mode == domain.ModePreview {
		return Transition{From: m.mode, To: domain.ModeSnapshot}
	}
	return Transition{From: m.mode, To: domain.ModePreview}
}

// Toggle flips between Preview and Snapshot.
func (m *ModeMachine) Toggle() Transition {
	if m.mode == domain.ModePreview {
		return m.set(domain.ModeSnapshot)
	}
	return m.set(domain.ModePreview)
}

// Set moves to the given mode. The second result is false when the machine
// was already there.
func (m *ModeMachine) Set(to domain.Mode) (Transition, bool) {
	if to != domain.ModePreview && to != domain.ModeSnapshot {
		return Transition{From: m.mode, To: m.mode}, false
	}
	if to == m.mode {
		return Transition{From: m.mode, To: m.mode}, false
	}
	return m.set(to), true
}

func (m *ModeMachine) set(to domain.Mode) Transition {
	t := Transition{From: m.mode, To: to}
	m.mode = to
	return t
}
