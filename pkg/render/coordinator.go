package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/dagview/internal/logging"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/ports"
)

// DefaultExportName is the image name used by the export control.
const DefaultExportName = "topology"

// Coordinator owns one diagram mount: its drawing engine, its DiagramState
// and the supporting tracker, mode machine and focus resolver.
//
// All methods are serialized by an internal mutex, but the intended driver is
// a Loop that feeds commands from a single goroutine.
type Coordinator struct {
	engine   ports.DrawingEngine
	upstream ports.Upstream

	mu      sync.Mutex
	state   *domain.DiagramState
	tracker *InteractionTracker
	modes   *ModeMachine
	focus   *FocusResolver

	// staged is the dataset last handed to the engine (Data or ChangeData).
	staged domain.Snapshot
	// queued holds the latest snapshot received while a render was in flight.
	queued *domain.Snapshot

	layout     domain.LayoutConfig
	exportName string
	hooks      domain.Hooks
	logger     *slog.Logger
	mountID    string
}

// NewCoordinator creates a coordinator for a freshly mounted diagram.
// A nil upstream discards reports.
func NewCoordinator(engine ports.DrawingEngine, upstream ports.Upstream, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine:     engine,
		upstream:   upstream,
		state:      domain.NewDiagramState(),
		tracker:    NewInteractionTracker(),
		modes:      NewModeMachine(),
		focus:      NewFocusResolver(DefaultFocusModifier),
		staged:     domain.Snapshot{}.Normalize(),
		layout:     domain.DefaultLayout(),
		exportName: DefaultExportName,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.upstream == nil {
		c.upstream = ports.UpstreamFunc(func(context.Context, domain.Report) error { return nil })
	}
	if c.mountID != "" {
		c.logger = c.logger.With("mount", c.mountID)
	}
	return c
}

// State returns a copy of the diagram state.
func (c *Coordinator) State() domain.DiagramState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// Tracking reports whether the interaction tracker is armed.
func (c *Coordinator) Tracking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.Armed()
}

// Start applies the initial mode to the engine.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	mode := c.modes.Mode()
	c.state.Mode = mode
	if err := c.engine.SetMode(mode, mode.Behaviors()); err != nil {
		return fmt.Errorf("failed to apply initial mode: %w", err)
	}
	return nil
}

// Handle dispatches one command.
func (c *Coordinator) Handle(ctx context.Context, cmd domain.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cmd.Kind == domain.CmdUnmount {
		c.unmount()
		return nil
	}

	switch cmd.Kind {
	case domain.CmdSnapshot:
		_, err := c.onSnapshot(ctx, cmd.Snapshot)
		return err
	case domain.CmdFocus:
		return c.focusItem(cmd.FocusID)
	case domain.CmdToggleMode:
		return c.toggleMode()
	case domain.CmdFitView:
		return c.fitView()
	case domain.CmdRelayout:
		return c.relayout()
	case domain.CmdClear:
		return c.clear()
	case domain.CmdExport:
		return c.export()
	case domain.CmdRenderNow:
		return c.renderNow()
	case domain.CmdRenderComplete:
		return c.afterRender(ctx)
	case domain.CmdInteraction:
		return c.observe(cmd.Interaction)
	case domain.CmdClick:
		return c.click(ctx, cmd.Click)
	case domain.CmdResize:
		return c.resize(cmd.Width, cmd.Height)
	}
	return fmt.Errorf("%w: %s", domain.ErrUnknownCommand, cmd.Kind)
}

// OnSnapshot processes one topology snapshot and returns the decision taken.
func (c *Coordinator) OnSnapshot(ctx context.Context, snap domain.Snapshot) (domain.Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onSnapshot(ctx, snap)
}

// RenderNow is the operator's explicit override of a deferred render.
func (c *Coordinator) RenderNow() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderNow()
}

func (c *Coordinator) onSnapshot(ctx context.Context, snap domain.Snapshot) (domain.Decision, error) {
	snap = snap.Normalize()

	// The status report never depends on what happens to the diagram.
	if err := c.upstream.ReportTopLevelCombos(ctx, snap.TopLevelCombos()); err != nil {
		c.logger.Warn("failed to report top-level combos", "error", err)
	}

	if c.engine.Destroyed() {
		return "", domain.ErrEngineDestroyed
	}

	if c.state.RenderInFlight {
		decision := domain.DecisionQueued
		if c.queued != nil {
			decision = domain.DecisionCoalesce
		}
		c.queued = &snap
		c.emitDecision(decision, snap, false)
		return decision, nil
	}

	return c.decide(snap)
}

// decide runs the render decision policy for a snapshot that is allowed to
// reach the engine now.
func (c *Coordinator) decide(snap domain.Snapshot) (domain.Decision, error) {
	previous := c.engine.NodeIDs()

	if len(previous) == 0 {
		if err := c.engine.Data(snap); err != nil {
			return "", fmt.Errorf("failed to apply dataset: %w", err)
		}
		c.staged = snap
		if err := c.render(false); err != nil {
			return "", err
		}
		c.emitDecision(domain.DecisionRender, snap, true)
		return domain.DecisionRender, nil
	}

	if !domain.NodesDiffer(previous, snap.NodeIDs()) {
		if err := c.engine.ChangeData(snap); err != nil {
			return "", fmt.Errorf("failed to patch dataset: %w", err)
		}
		c.staged = snap
		c.state.LastAppliedNodeIDs = snap.NodeIDs()
		// The patched diagram matches the server again; a deferred render is moot.
		if err := c.setAffordance(false); err != nil {
			return "", err
		}
		c.emitDecision(domain.DecisionPatch, snap, false)
		return domain.DecisionPatch, nil
	}

	if err := c.engine.Data(snap); err != nil {
		return "", fmt.Errorf("failed to replace dataset: %w", err)
	}
	c.staged = snap

	if c.state.HasInteractedSinceLastRender {
		if err := c.setAffordance(true); err != nil {
			return "", err
		}
		c.logger.Info("render deferred after manual interaction", "nodes", len(snap.Nodes))
		c.emitDecision(domain.DecisionDefer, snap, true)
		return domain.DecisionDefer, nil
	}

	if err := c.render(false); err != nil {
		return "", err
	}
	c.emitDecision(domain.DecisionRender, snap, true)
	return domain.DecisionRender, nil
}

// render triggers the engine's render pass. Viewport work waits for the
// engine's completion event.
func (c *Coordinator) render(manual bool) error {
	if c.engine.Destroyed() {
		c.logger.Debug("render skipped, engine destroyed")
		return nil
	}
	if w, h := c.engine.ContainerSize(); w <= 0 || h <= 0 {
		c.logger.Debug("render suppressed, container not laid out", "width", w, "height", h)
		c.state.RenderSuppressed = true
		return nil
	}

	if err := c.engine.Render(); err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	if err := c.engine.UpdateLayout(c.layout); err != nil {
		return fmt.Errorf("failed to apply layout: %w", err)
	}

	c.state.RenderInFlight = true
	c.state.RenderSuppressed = false
	c.state.HasInteractedSinceLastRender = false
	c.state.LastAppliedNodeIDs = c.staged.NodeIDs()
	if err := c.setAffordance(false); err != nil {
		return err
	}
	c.tracker.Arm(c.onInteraction)

	if c.hooks.OnRender != nil {
		c.hooks.OnRender(&domain.RenderEvent{
			Timestamp: time.Now(),
			Manual:    manual,
			Nodes:     len(c.staged.Nodes),
		})
	}
	return nil
}

func (c *Coordinator) afterRender(ctx context.Context) error {
	if !c.state.RenderInFlight {
		c.logger.Debug("ignoring render completion with no render in flight")
		return nil
	}
	c.state.RenderInFlight = false

	if c.engine.Destroyed() {
		return domain.ErrEngineDestroyed
	}
	if w, h := c.engine.ContainerSize(); w > 0 && h > 0 {
		if err := c.engine.ChangeSize(w, h); err != nil {
			return fmt.Errorf("failed to resize canvas: %w", err)
		}
		if err := c.engine.FitView(c.layout.FitViewPadding); err != nil {
			return fmt.Errorf("failed to fit view: %w", err)
		}
	}

	if c.queued != nil {
		next := *c.queued
		c.queued = nil
		if _, err := c.decide(next); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) renderNow() error {
	if err := c.setAffordance(false); err != nil {
		return err
	}
	if c.state.RenderInFlight {
		return nil
	}
	return c.render(true)
}

// onInteraction is the tracker handler: it flags the manual arrangement and
// keeps a running layout animation from overwriting it.
func (c *Coordinator) onInteraction(kind domain.InteractionKind) error {
	c.state.HasInteractedSinceLastRender = true
	if c.hooks.OnInteraction != nil {
		c.hooks.OnInteraction(kind)
	}
	if c.engine.Destroyed() {
		return nil
	}
	if err := c.engine.StopAnimation(); err != nil {
		return fmt.Errorf("failed to stop layout animation: %w", err)
	}
	return nil
}

func (c *Coordinator) observe(kind domain.InteractionKind) error {
	fired, err := c.tracker.Observe(kind)
	if fired {
		c.logger.Debug("manual interaction detected", "kind", kind)
	}
	return err
}

func (c *Coordinator) setAffordance(visible bool) error {
	if c.state.PendingRenderVisible == visible {
		return nil
	}
	c.state.PendingRenderVisible = visible
	if c.engine.Destroyed() {
		return nil
	}
	if err := c.engine.ShowRenderAffordance(visible); err != nil {
		return fmt.Errorf("failed to toggle render affordance: %w", err)
	}
	return nil
}

// toggleMode commits the transition only once the engine has switched, so
// a failed engine call leaves the machine and the state in the old mode.
func (c *Coordinator) toggleMode() error {
	if c.engine.Destroyed() {
		return domain.ErrEngineDestroyed
	}
	t := c.modes.Next()

	if t.EntersPreview() {
		if err := c.engine.ExpandAllCombos(); err != nil {
			return fmt.Errorf("failed to expand combos: %w", err)
		}
		if err := c.engine.UpdateLayout(c.layout); err != nil {
			return fmt.Errorf("failed to recompute layout: %w", err)
		}
	}
	if err := c.engine.SetMode(t.To, t.To.Behaviors()); err != nil {
		return fmt.Errorf("failed to switch mode: %w", err)
	}

	c.modes.Set(t.To)
	c.state.Mode = t.To
	// Snapshot mode lets the operator collapse combos again.
	c.state.CombosExpanded = t.To == domain.ModePreview

	c.logger.Debug("mode changed", "from", t.From, "to", t.To)
	if c.hooks.OnModeChange != nil {
		c.hooks.OnModeChange(t.From, t.To)
	}
	return nil
}

func (c *Coordinator) fitView() error {
	if c.engine.Destroyed() {
		return nil
	}
	if w, h := c.engine.ContainerSize(); w <= 0 || h <= 0 {
		return nil
	}
	if err := c.engine.FitView(c.layout.FitViewPadding); err != nil {
		return fmt.Errorf("failed to fit view: %w", err)
	}
	return nil
}

func (c *Coordinator) relayout() error {
	if c.engine.Destroyed() {
		return nil
	}
	if err := c.engine.UpdateLayout(c.layout.WithSortByCombo()); err != nil {
		return fmt.Errorf("failed to relayout: %w", err)
	}
	return nil
}

func (c *Coordinator) clear() error {
	if c.engine.Destroyed() {
		return domain.ErrEngineDestroyed
	}
	if err := c.engine.Clear(); err != nil {
		return fmt.Errorf("failed to clear diagram: %w", err)
	}
	c.staged = domain.Snapshot{}.Normalize()
	c.state.LastAppliedNodeIDs = []string{}
	return c.setAffordance(false)
}

func (c *Coordinator) export() error {
	if c.engine.Destroyed() {
		return domain.ErrEngineDestroyed
	}
	if err := c.engine.ExportImage(c.exportName); err != nil {
		return fmt.Errorf("failed to export image: %w", err)
	}
	return nil
}

func (c *Coordinator) focusItem(id string) error {
	if id == "" {
		return nil
	}
	if c.engine.Destroyed() {
		return domain.ErrEngineDestroyed
	}
	if err := c.engine.FocusItem(id); err != nil {
		return fmt.Errorf("failed to focus %q: %w", id, err)
	}
	return nil
}

func (c *Coordinator) click(ctx context.Context, ev domain.ClickEvent) error {
	path, ok := c.focus.Resolve(ev)
	if !ok {
		return nil
	}
	if err := c.upstream.ReportFocusPath(ctx, path); err != nil {
		return fmt.Errorf("failed to report focus path: %w", err)
	}
	return nil
}

func (c *Coordinator) resize(width, height int) error {
	if c.engine.Destroyed() {
		return nil
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	if err := c.engine.ChangeSize(width, height); err != nil {
		return fmt.Errorf("failed to resize canvas: %w", err)
	}
	if c.state.RenderSuppressed && !c.state.RenderInFlight {
		return c.render(false)
	}
	return nil
}

func (c *Coordinator) unmount() {
	c.tracker.Disarm()
	c.queued = nil
	c.state.RenderInFlight = false
}

func (c *Coordinator) emitDecision(decision domain.Decision, snap domain.Snapshot, changed bool) {
	c.logger.Debug("snapshot processed", "decision", decision, "nodes", len(snap.Nodes), "combos", len(snap.Combos))
	if c.hooks.OnDecision != nil {
		c.hooks.OnDecision(&domain.DecisionEvent{
			Timestamp: time.Now(),
			Decision:  decision,
			Nodes:     len(snap.Nodes),
			Combos:    len(snap.Combos),
			Changed:   changed,
		})
	}
}
