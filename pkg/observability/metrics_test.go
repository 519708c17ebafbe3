package observability_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/dagview/internal/logging"
	"github.com/aretw0/dagview/pkg/adapters/memory"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/observability"
	"github.com/aretw0/dagview/pkg/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(ids ...string) domain.Snapshot {
	s := domain.Snapshot{}
	for _, id := range ids {
		s.Nodes = append(s.Nodes, domain.Node{ID: id})
	}
	return s
}

func TestMetrics_CoordinatorHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	engine := memory.NewEngine(800, 600)
	c := render.NewCoordinator(engine, nil, render.WithHooks(metrics.Hooks()))
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	_, err := c.OnSnapshot(ctx, nodes("a"))
	require.NoError(t, err)
	require.NoError(t, c.Handle(ctx, domain.ControlCommand(domain.CmdRenderComplete)))

	require.NoError(t, c.Handle(ctx, domain.InteractionCommand(domain.InteractionDragStart)))
	_, err = c.OnSnapshot(ctx, nodes("a", "b"))
	require.NoError(t, err)
	require.NoError(t, c.RenderNow())
	require.NoError(t, c.Handle(ctx, domain.ControlCommand(domain.CmdToggleMode)))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Decisions.WithLabelValues("render")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Decisions.WithLabelValues("defer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Interactions.WithLabelValues("dragstart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ModeChanges.WithLabelValues("snapshot")))
}

func TestMetrics_Publish(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	metrics.ObservePublish("pipeline", 2)
	metrics.ObservePublish("pipeline", 0)
	metrics.Mounts.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Publishes.WithLabelValues("pipeline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Mounts))

	count, err := testutil.GatherAndCount(reg, "dagview_snapshots_published_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMerge(t *testing.T) {
	var order []string
	a := domain.Hooks{OnDecision: func(*domain.DecisionEvent) { order = append(order, "a") }}
	b := domain.Hooks{
		OnDecision:   func(*domain.DecisionEvent) { order = append(order, "b") },
		OnModeChange: func(from, to domain.Mode) { order = append(order, "mode") },
	}

	merged := observability.Merge(a, domain.Hooks{}, b)
	merged.OnDecision(&domain.DecisionEvent{})
	merged.OnModeChange(domain.ModePreview, domain.ModeSnapshot)

	assert.Equal(t, []string{"a", "b", "mode"}, order)
	assert.Nil(t, merged.OnRender)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.ParseLevel("debug"), logging.FormatText)

	hooks := observability.LogHooks(logger)
	hooks.OnDecision(&domain.DecisionEvent{Decision: domain.DecisionPatch, Nodes: 3})
	hooks.OnModeChange(domain.ModePreview, domain.ModeSnapshot)

	out := buf.String()
	assert.Contains(t, out, "decision=patch")
	assert.Contains(t, out, "to=snapshot")
}
