package loam_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	loamAdapter "github.com/aretw0/dagview/pkg/adapters/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixtures(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestFixtures_Snapshot(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"pipeline.json": `{
  "nodes": [{"id": "a", "comboId": "c1"}, {"id": "b", "comboId": "c1"}],
  "edges": [{"source": "a", "target": "b"}],
  "combos": [{"id": "c1", "label": "Pipeline"}]
}`,
		"single.md": `---
nodes:
  - id: solo
---
A lone node.`,
	})

	fixtures, err := loamAdapter.Open(dir)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		id     string
		nodes  []string
		combos []string
		edges  int
	}{
		{id: "pipeline", nodes: []string{"a", "b"}, combos: []string{"c1"}, edges: 1},
		{id: "pipeline.json", nodes: []string{"a", "b"}, combos: []string{"c1"}, edges: 1},
		{id: "single", nodes: []string{"solo"}, combos: []string{}, edges: 0},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			snap, err := fixtures.Snapshot(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.nodes, snap.NodeIDs())
			assert.Equal(t, tt.combos, snap.ComboIDs())
			assert.Len(t, snap.Edges, tt.edges)
			assert.NotNil(t, snap.Combos, "absent collections load as empty")
		})
	}
}

func TestFixtures_List(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"b.json": `{"nodes": []}`,
		"a.json": `{"nodes": []}`,
	})

	fixtures, err := loamAdapter.Open(dir)
	require.NoError(t, err)

	ids, err := fixtures.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestFixtures_Missing(t *testing.T) {
	fixtures, err := loamAdapter.Open(writeFixtures(t, nil))
	require.NoError(t, err)

	_, err = fixtures.Snapshot(context.Background(), "absent")
	assert.Error(t, err)
}
