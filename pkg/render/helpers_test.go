package render_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/dagview/pkg/adapters/memory"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/render"
	"github.com/stretchr/testify/require"
)

// reportRecorder is an Upstream capturing every report.
type reportRecorder struct {
	mu      sync.Mutex
	reports []domain.Report
}

func (r *reportRecorder) ReportTopLevelCombos(ctx context.Context, combos []domain.Combo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, domain.Report{Name: domain.ReportTopLevelCombos, Combos: combos})
	return nil
}

func (r *reportRecorder) ReportFocusPath(ctx context.Context, path []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, domain.Report{Name: domain.ReportFocusPath, Path: path})
	return nil
}

func (r *reportRecorder) named(name string) []domain.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Report
	for _, rep := range r.reports {
		if rep.Name == name {
			out = append(out, rep)
		}
	}
	return out
}

func snap(ids ...string) domain.Snapshot {
	s := domain.Snapshot{}
	for _, id := range ids {
		s.Nodes = append(s.Nodes, domain.Node{ID: id, Label: id})
	}
	return s
}

func newHarness(t *testing.T, opts ...render.Option) (*render.Coordinator, *memory.Engine, *reportRecorder) {
	t.Helper()
	engine := memory.NewEngine(800, 600)
	rec := &reportRecorder{}
	c := render.NewCoordinator(engine, rec, opts...)
	require.NoError(t, c.Start(context.Background()))
	engine.ResetCalls()
	return c, engine, rec
}

// renderAndSettle pushes a snapshot, completes its render and forgets the
// engine calls.
func renderAndSettle(t *testing.T, c *render.Coordinator, engine *memory.Engine, s domain.Snapshot) {
	t.Helper()
	ctx := context.Background()
	decision, err := c.OnSnapshot(ctx, s)
	require.NoError(t, err)
	require.Equal(t, domain.DecisionRender, decision)
	require.NoError(t, c.Handle(ctx, domain.ControlCommand(domain.CmdRenderComplete)))
	engine.ResetCalls()
}
