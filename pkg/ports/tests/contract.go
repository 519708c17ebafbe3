package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract verifies that a SnapshotStore implementation
// adheres to the interface contract.
func RunSnapshotStoreContract(t *testing.T, store ports.SnapshotStore) {
	t.Helper()
	ctx := context.Background()
	viewID := "contract-view-" + time.Now().Format("20060102150405")

	sample := domain.Snapshot{
		Nodes: []domain.Node{
			{ID: "n1", Label: "source", ComboID: "c1"},
			{ID: "n2", Label: "sink", ComboID: "c1"},
		},
		Edges:  []domain.Edge{{Source: "n1", Target: "n2"}},
		Combos: []domain.Combo{{ID: "c1", Label: "pipeline"}},
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, viewID, sample)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, viewID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sample.NodeIDs(), loaded.NodeIDs())
		assert.Equal(t, sample.ComboIDs(), loaded.ComboIDs())
		assert.Len(t, loaded.Edges, 1)
		assert.Equal(t, "source", loaded.Nodes[0].Label)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		next := domain.Snapshot{Nodes: []domain.Node{{ID: "n3"}}}
		require.NoError(t, store.Save(ctx, viewID, next))

		loaded, err := store.Load(ctx, viewID)
		require.NoError(t, err)
		assert.Equal(t, []string{"n3"}, loaded.NodeIDs())
		assert.NotNil(t, loaded.Combos, "absent collections load as empty")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+viewID)
		assert.ErrorIs(t, err, domain.ErrViewNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, viewID, sample))

		err := store.Delete(ctx, viewID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, viewID)
		assert.ErrorIs(t, err, domain.ErrViewNotFound, "Load after Delete should return ErrViewNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := viewID + "-1"
		id2 := viewID + "-2"
		_ = store.Save(ctx, id1, sample)
		_ = store.Save(ctx, id2, sample)

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		views, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, views, id1)
		assert.Contains(t, views, id2)
	})
}
