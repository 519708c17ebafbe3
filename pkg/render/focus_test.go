package render

import (
	"testing"

	"github.com/aretw0/dagview/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestFocusResolver_Modifier(t *testing.T) {
	r := NewFocusResolver("alt")
	click := domain.ClickEvent{
		Modifiers: []string{"shift"},
		Path:      []domain.Hit{{ID: "label"}, {ID: "n1"}},
	}
	_, ok := r.Resolve(click)
	assert.False(t, ok, "wrong modifier")

	click.Modifiers = []string{"alt"}
	path, ok := r.Resolve(click)
	assert.True(t, ok)
	assert.Equal(t, []string{"n1"}, path)

	assert.Equal(t, DefaultFocusModifier, NewFocusResolver("").Modifier())
}

func TestFocusResolver_ShortPath(t *testing.T) {
	r := NewFocusResolver("")
	for _, hits := range [][]domain.Hit{nil, {{ID: "canvas"}}} {
		_, ok := r.Resolve(domain.ClickEvent{Modifiers: []string{"shift"}, Path: hits})
		assert.False(t, ok)
	}
}

func TestFocusResolver_OnlyCanvasAboveLabel(t *testing.T) {
	r := NewFocusResolver("")
	_, ok := r.Resolve(domain.ClickEvent{
		Modifiers: []string{"shift"},
		Path:      []domain.Hit{{ID: "label"}, {}},
	})
	assert.False(t, ok)
}

func TestFocusResolver_PathIsCopied(t *testing.T) {
	r := NewFocusResolver("")
	own := []string{"pipeline", "n1"}
	path, ok := r.Resolve(domain.ClickEvent{
		Modifiers: []string{"shift"},
		Path:      []domain.Hit{{ID: "label"}, {ID: "n1", Path: own}},
	})
	assert.True(t, ok)
	path[0] = "changed"
	assert.Equal(t, "pipeline", own[0])
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"pipeline", "bin", "source"}, SplitPath(" pipeline/bin/source "))
	assert.Equal(t, []string{"a", "b"}, SplitPath("/a//b/"))
	assert.Empty(t, SplitPath(""))
}
