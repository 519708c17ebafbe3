package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopLevelCombos(t *testing.T) {
	snap := Snapshot{
		Combos: []Combo{
			{ID: "pipeline", Label: "pipeline"},
			{ID: "pipeline/bin", ParentID: "pipeline"},
			{ID: "other"},
		},
	}

	top := snap.TopLevelCombos()
	require.Len(t, top, 2)
	assert.Equal(t, "pipeline", top[0].ID)
	assert.Equal(t, "other", top[1].ID)

	assert.NotNil(t, Snapshot{}.TopLevelCombos(), "empty result should still be a slice")
}

func TestDecodeSnapshot(t *testing.T) {
	t.Run("Bare Shape", func(t *testing.T) {
		snap, err := DecodeSnapshot(map[string]any{
			"nodes": []any{
				map[string]any{"id": "n1", "label": "source", "comboId": "c1", "x": 10.0},
				map[string]any{"id": "n2"},
			},
			"edges":  []any{map[string]any{"source": "n1", "target": "n2"}},
			"combos": []any{map[string]any{"id": "c1"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"n1", "n2"}, snap.NodeIDs())
		assert.Equal(t, "c1", snap.Nodes[0].ComboID)
		require.NotNil(t, snap.Nodes[0].X)
		assert.Equal(t, 10.0, *snap.Nodes[0].X)
		assert.Len(t, snap.Edges, 1)
		assert.Equal(t, []string{"c1"}, snap.ComboIDs())
	})

	t.Run("Wrapped Shape", func(t *testing.T) {
		snap, err := DecodeSnapshot(map[string]any{
			"data": map[string]any{
				"nodes": []any{map[string]any{"id": "n1"}},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"n1"}, snap.NodeIDs())
	})

	t.Run("Missing Collections", func(t *testing.T) {
		snap, err := DecodeSnapshot(map[string]any{"edges": []any{}})
		require.NoError(t, err)
		assert.NotNil(t, snap.Nodes)
		assert.NotNil(t, snap.Combos)
		assert.True(t, snap.IsEmpty())
	})

	t.Run("Nil Payload", func(t *testing.T) {
		snap, err := DecodeSnapshot(nil)
		require.NoError(t, err)
		assert.True(t, snap.IsEmpty())
	})

	t.Run("Wrong Type", func(t *testing.T) {
		_, err := DecodeSnapshot(map[string]any{"nodes": 42})
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestModeBehaviors(t *testing.T) {
	assert.ElementsMatch(t, []Behavior{BehaviorDragCanvas, BehaviorZoomCanvas}, ModePreview.Behaviors())
	assert.Contains(t, ModeSnapshot.Behaviors(), BehaviorDragNode)
	assert.Contains(t, ModeSnapshot.Behaviors(), BehaviorCollapseExpand)
	assert.False(t, ModePreview.Editable())
	assert.True(t, ModeSnapshot.Editable())
}
