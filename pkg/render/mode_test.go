package render

import (
	"testing"

	"github.com/aretw0/dagview/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestModeMachine(t *testing.T) {
	m := NewModeMachine()
	assert.Equal(t, domain.ModePreview, m.Mode())

	tr := m.Toggle()
	assert.Equal(t, Transition{From: domain.ModePreview, To: domain.ModeSnapshot}, tr)
	assert.False(t, tr.EntersPreview())

	tr = m.Toggle()
	assert.Equal(t, domain.ModePreview, m.Mode())
	assert.True(t, tr.EntersPreview())
}

func TestModeMachine_Set(t *testing.T) {
	m := NewModeMachine()

	_, changed := m.Set(domain.ModePreview)
	assert.False(t, changed, "already in Preview")

	_, changed = m.Set("bogus")
	assert.False(t, changed)
	assert.Equal(t, domain.ModePreview, m.Mode())

	tr, changed := m.Set(domain.ModeSnapshot)
	assert.True(t, changed)
	assert.Equal(t, domain.ModePreview, tr.From)
	assert.Equal(t, domain.ModeSnapshot, m.Mode())
}

func TestModeMachine_NextDoesNotMove(t *testing.T) {
	m := NewModeMachine()

	tr := m.Next()
	assert.Equal(t, Transition{From: domain.ModePreview, To: domain.ModeSnapshot}, tr)
	assert.Equal(t, domain.ModePreview, m.Mode())

	m.Set(tr.To)
	assert.True(t, m.Next().EntersPreview())
}
