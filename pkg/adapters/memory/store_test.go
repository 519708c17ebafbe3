package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/dagview/pkg/adapters/memory"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	tests.RunSnapshotStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	snap := domain.Snapshot{Nodes: []domain.Node{{ID: "n1", Label: "a"}}}
	require.NoError(t, store.Save(ctx, "v", snap))

	snap.Nodes[0].Label = "mutated"

	loaded, err := store.Load(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.Nodes[0].Label)

	loaded.Nodes[0].Label = "mutated again"
	again, err := store.Load(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Nodes[0].Label)
}
