package render

import (
	"errors"
	"testing"

	"github.com/aretw0/dagview/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionTracker_OneShot(t *testing.T) {
	tracker := NewInteractionTracker()
	calls := 0
	tracker.Arm(func(domain.InteractionKind) error {
		calls++
		return nil
	})
	require.True(t, tracker.Armed())

	fired, err := tracker.Observe(domain.InteractionDragStart)
	require.NoError(t, err)
	assert.True(t, fired)

	for _, kind := range []domain.InteractionKind{domain.InteractionClick, domain.InteractionDragStart, domain.InteractionTouchStart} {
		fired, err = tracker.Observe(kind)
		require.NoError(t, err)
		assert.False(t, fired, "disarmed tracker must not fire on %s", kind)
	}
	assert.Equal(t, 1, calls)
	assert.False(t, tracker.Armed())
}

func TestInteractionTracker_UnarmedIsSilent(t *testing.T) {
	tracker := NewInteractionTracker()
	fired, err := tracker.Observe(domain.InteractionClick)
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestInteractionTracker_IgnoresPassiveEvents(t *testing.T) {
	tracker := NewInteractionTracker()
	tracker.Arm(func(domain.InteractionKind) error { return nil })

	fired, _ := tracker.Observe(domain.InteractionWheel)
	assert.False(t, fired)
	fired, _ = tracker.Observe(domain.InteractionMove)
	assert.False(t, fired)
	assert.True(t, tracker.Armed())
}

func TestInteractionTracker_Rearm(t *testing.T) {
	tracker := NewInteractionTracker()
	var kinds []domain.InteractionKind
	handler := func(k domain.InteractionKind) error {
		kinds = append(kinds, k)
		return nil
	}

	tracker.Arm(handler)
	_, _ = tracker.Observe(domain.InteractionClick)
	tracker.Arm(handler)
	_, _ = tracker.Observe(domain.InteractionTouchStart)

	assert.Equal(t, []domain.InteractionKind{domain.InteractionClick, domain.InteractionTouchStart}, kinds)
}

func TestInteractionTracker_HandlerError(t *testing.T) {
	tracker := NewInteractionTracker()
	boom := errors.New("boom")
	tracker.Arm(func(domain.InteractionKind) error { return boom })

	fired, err := tracker.Observe(domain.InteractionClick)
	assert.True(t, fired)
	assert.ErrorIs(t, err, boom)
	assert.False(t, tracker.Armed())
}

func TestInteractionTracker_Disarm(t *testing.T) {
	tracker := NewInteractionTracker()
	tracker.Arm(func(domain.InteractionKind) error {
		t.Fatal("handler must not run after Disarm")
		return nil
	})
	tracker.Disarm()
	fired, _ := tracker.Observe(domain.InteractionClick)
	assert.False(t, fired)
}
