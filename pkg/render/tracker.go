package render

import (
	"github.com/aretw0/dagview/pkg/domain"
)

// InteractionHandler is invoked when the tracker fires.
type InteractionHandler func(kind domain.InteractionKind) error

// InteractionTracker detects the first user interaction after it is armed.
// It fires at most once per Arm; after firing it is disarmed and ignores
// further events until armed again.
type InteractionTracker struct {
	armed   bool
	handler InteractionHandler
}

// NewInteractionTracker returns a disarmed tracker.
func NewInteractionTracker() *InteractionTracker {
	return &InteractionTracker{}
}

// Arm starts listening. Arming an armed tracker replaces its handler.
func (t *InteractionTracker) Arm(handler InteractionHandler) {
	t.armed = true
	t.handler = handler
}

// Disarm stops listening without firing.
func (t *InteractionTracker) Disarm() {
	t.armed = false
	t.handler = nil
}

// Armed reports whether the tracker is listening.
func (t *InteractionTracker) Armed() bool {
	return t.armed
}

// Observe feeds a surface event to the tracker. It returns true when the
// event fired the handler.
func (t *InteractionTracker) Observe(kind domain.InteractionKind) (bool, error) {
	if !t.armed || !Triggers(kind) {
		return false, nil
	}
	handler := t.handler
	t.Disarm()
	if handler == nil {
		return true, nil
	}
	return true, handler(kind)
}

// Triggers reports whether an event kind counts as manual interaction.
// Wheel zoom and hover do not move elements, so they are not tracked.
func Triggers(kind domain.InteractionKind) bool {
	switch kind {
	case domain.InteractionClick, domain.InteractionDragStart, domain.InteractionTouchStart:
		return true
	}
	return false
}
