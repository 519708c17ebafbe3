package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const session = `
name: Operator session
steps:
  - snapshot:
      nodes:
        - {id: a, comboId: c1}
        - {id: b, comboId: c1}
      combos:
        - {id: c1}
  - snapshot:
      nodes:
        - {id: a, comboId: c1, label: "A (busy)"}
        - {id: b, comboId: c1}
      combos:
        - {id: c1}
  - interaction: dragstart
  - snapshot:
      nodes: [{id: a}, {id: b}, {id: c}]
  - control: render-now
  - click:
      modifiers: [shift]
      path:
        - {id: label}
        - {id: a, path: [c1, a]}
  - destroy: true
  - snapshot:
      nodes: [{id: z}]
`

func TestRunner_Session(t *testing.T) {
	script, err := runner.ParseScript([]byte(session), false)
	require.NoError(t, err)
	assert.Equal(t, 800, script.Width)

	report, err := runner.NewRunner().Run(context.Background(), script)
	require.NoError(t, err)
	require.Len(t, report.Steps, 8)

	steps := report.Steps
	assert.Equal(t, []domain.Decision{domain.DecisionRender}, steps[0].Decisions)
	assert.Equal(t, []string{"a", "b"}, steps[0].Rendered)
	require.Len(t, steps[0].Reports, 1)
	assert.Equal(t, domain.ReportTopLevelCombos, steps[0].Reports[0].Name)

	assert.Equal(t, []domain.Decision{domain.DecisionPatch}, steps[1].Decisions)
	assert.Zero(t, steps[1].Renders)

	assert.True(t, steps[2].State.HasInteractedSinceLastRender)

	assert.Equal(t, []domain.Decision{domain.DecisionDefer}, steps[3].Decisions)
	assert.True(t, steps[3].State.PendingRenderVisible)
	assert.Equal(t, []string{"a", "b"}, steps[3].Rendered, "deferred data is not shown")

	assert.Equal(t, 1, steps[4].Renders)
	assert.Equal(t, []string{"a", "b", "c"}, steps[4].Rendered)
	assert.False(t, steps[4].State.PendingRenderVisible)

	require.Len(t, steps[5].Reports, 1)
	assert.Equal(t, []string{"c1", "a"}, steps[5].Reports[0].Path)

	assert.Empty(t, steps[6].Err)
	assert.Contains(t, steps[7].Err, domain.ErrEngineDestroyed.Error())

	md := report.Markdown()
	assert.Contains(t, md, "# Operator session")
	assert.Contains(t, md, "| 4 | snapshot (3 nodes, 0 combos) | defer | 0 | a b | preview | yes | combos [] |")
	assert.Contains(t, md, "focus c1/a")
}

func TestRunner_QueuedSnapshotsWithManualCompletion(t *testing.T) {
	script := &runner.Script{
		Width: 800, Height: 600,
		ManualCompletion: true,
		Steps: []runner.Step{
			{Snapshot: &domain.Snapshot{Nodes: []domain.Node{{ID: "a"}}}},
			{Snapshot: &domain.Snapshot{Nodes: []domain.Node{{ID: "b"}}}},
			{Snapshot: &domain.Snapshot{Nodes: []domain.Node{{ID: "c"}}}},
			{Complete: true},
			{Complete: true},
		},
	}

	report, err := runner.NewRunner().Run(context.Background(), script)
	require.NoError(t, err)

	assert.Equal(t, []domain.Decision{
		domain.DecisionRender,
		domain.DecisionQueued,
		domain.DecisionCoalesce,
		domain.DecisionRender,
	}, report.Decisions())
	assert.Equal(t, []string{"c"}, report.Steps[3].Rendered)
	assert.False(t, report.Steps[4].State.RenderInFlight)
}

func TestRunner_ZeroSizeContainerRendersOnResize(t *testing.T) {
	script := &runner.Script{
		Width: 0, Height: 0,
		Steps: []runner.Step{
			{Snapshot: &domain.Snapshot{Nodes: []domain.Node{{ID: "a"}}}},
			{Resize: &runner.Size{Width: 640, Height: 480}},
		},
	}

	report, err := runner.NewRunner().Run(context.Background(), script)
	require.NoError(t, err)

	assert.True(t, report.Steps[0].State.RenderSuppressed)
	assert.Empty(t, report.Steps[0].Rendered)
	assert.Equal(t, 1, report.Steps[1].Renders)
	assert.Equal(t, []string{"a"}, report.Steps[1].Rendered)
}

func TestParseScript_Invalid(t *testing.T) {
	_, err := runner.ParseScript([]byte("steps:\n  - {}\n"), false)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, err = runner.ParseScript([]byte("steps:\n  - control: explode\n"), false)
	assert.ErrorIs(t, err, domain.ErrUnknownCommand)

	_, err = runner.ParseScript([]byte("steps:\n  - focus: a\n    complete: true\n"), false)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestLoadScript_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"width": 100, "height": 100, "steps": [{"control": "toggle-mode"}]}`), 0o644))

	script, err := runner.LoadScript(path)
	require.NoError(t, err)

	report, err := runner.NewRunner().Run(context.Background(), script)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSnapshot, report.Steps[0].State.Mode)
}

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "topology.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
data:
  nodes:
    - {id: a, comboId: c1}
  combos:
    - {id: c1}
`), 0o644))
	snap, err := runner.LoadSnapshot(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, snap.NodeIDs())
	assert.Equal(t, []string{"c1"}, snap.ComboIDs())
	assert.NotNil(t, snap.Edges)

	jsonPath := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"nodes": [`), 0o644))
	_, err = runner.LoadSnapshot(jsonPath)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, err = runner.LoadSnapshot(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadScript_Fixtures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fixtures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixtures", "small.json"),
		[]byte(`{"nodes": [{"id": "a"}, {"id": "b"}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixtures", "grown.json"),
		[]byte(`{"nodes": [{"id": "a"}, {"id": "b"}, {"id": "c"}]}`), 0o644))

	path := filepath.Join(dir, "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
steps:
  - fixture: small
  - fixture: grown
`), 0o644))

	script, err := runner.LoadScript(path)
	require.NoError(t, err)

	report, err := runner.NewRunner().Run(context.Background(), script)
	require.NoError(t, err)
	require.Len(t, report.Steps, 2)
	assert.Equal(t, "fixture small (2 nodes, 0 combos)", report.Steps[0].Step)
	assert.Equal(t, []string{"a", "b", "c"}, report.Steps[1].Rendered)
	assert.Equal(t, []domain.Decision{domain.DecisionRender, domain.DecisionRender}, report.Decisions())
}

type fixtureMap map[string]domain.Snapshot

func (m fixtureMap) Snapshot(ctx context.Context, id string) (domain.Snapshot, error) {
	snap, ok := m[id]
	if !ok {
		return domain.Snapshot{}, domain.ErrViewNotFound
	}
	return snap, nil
}

func TestScript_Resolve(t *testing.T) {
	script, err := runner.ParseScript([]byte("steps:\n  - fixture: known\n  - fixture: unknown\n"), false)
	require.NoError(t, err, "fixture steps are checked once loaded")

	err = script.Resolve(context.Background(), fixtureMap{"known": {Nodes: []domain.Node{{ID: "a"}}}})
	assert.ErrorIs(t, err, domain.ErrViewNotFound)

	_, err = script.Steps[0].Command()
	assert.NoError(t, err)
	_, err = script.Steps[1].Command()
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)

	_, err = runner.ParseScript([]byte("steps:\n  - fixture: known\n    complete: true\n"), false)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}
