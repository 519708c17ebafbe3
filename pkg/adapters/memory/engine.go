package memory

import (
	"sync"

	"github.com/aretw0/dagview/pkg/domain"
)

// Engine is a headless ports.DrawingEngine. It keeps the dataset and view
// state a real canvas would hold and records every operation, so coordinator
// behavior can be observed without a browser.
//
// Render completion is not automatic: the host dispatches
// domain.CmdRenderComplete, or sets OnRender to do so.
type Engine struct {
	mu sync.Mutex

	data     domain.Snapshot
	rendered domain.Snapshot

	width, height    int
	canvasW, canvasH int
	destroyed        bool
	mode             domain.Mode
	behaviors        []domain.Behavior
	layout           domain.LayoutConfig
	animating        bool
	expanded         bool
	affordance       bool
	fitted           int
	focused          []string
	exports          []string
	calls            []domain.EngineOp

	// OnRender is called after every Render, outside the engine lock.
	OnRender func()
}

// NewEngine returns an empty engine with the given container size.
func NewEngine(width, height int) *Engine {
	return &Engine{
		data:     domain.Snapshot{}.Normalize(),
		rendered: domain.Snapshot{}.Normalize(),
		width:    width,
		height:   height,
		mode:     domain.ModePreview,
	}
}

func (e *Engine) record(op domain.EngineOp) {
	e.calls = append(e.calls, op)
}

// Destroyed implements ports.DrawingEngine.
func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// Destroy tears the engine down.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyed = true
}

// NodeIDs returns the identifiers of the rendered dataset.
func (e *Engine) NodeIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rendered.NodeIDs()
}

// ContainerSize implements ports.DrawingEngine.
func (e *Engine) ContainerSize() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

// SetContainerSize simulates the browser laying out the container.
func (e *Engine) SetContainerSize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.width, e.height = width, height
}

// Data stages a new dataset for the next render.
func (e *Engine) Data(snapshot domain.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpData)
	e.data = snapshot
	return nil
}

// ChangeData patches the visible elements in place.
func (e *Engine) ChangeData(snapshot domain.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpChangeData)
	e.data = snapshot
	e.rendered = snapshot
	return nil
}

// Render shows the staged dataset.
func (e *Engine) Render() error {
	e.mu.Lock()
	e.record(domain.OpRender)
	e.rendered = e.data
	hook := e.OnRender
	e.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

// UpdateLayout stores the layout and starts its animation when enabled.
func (e *Engine) UpdateLayout(layout domain.LayoutConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpUpdateLayout)
	e.layout = layout
	e.animating = layout.Animate
	return nil
}

// ChangeSize resizes the canvas.
func (e *Engine) ChangeSize(width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpChangeSize)
	e.canvasW, e.canvasH = width, height
	return nil
}

// FitView implements ports.DrawingEngine.
func (e *Engine) FitView(padding int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpFitView)
	e.fitted++
	return nil
}

// FocusItem implements ports.DrawingEngine.
func (e *Engine) FocusItem(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpFocusItem)
	e.focused = append(e.focused, id)
	return nil
}

// StopAnimation implements ports.DrawingEngine.
func (e *Engine) StopAnimation() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpStopAnimation)
	e.animating = false
	return nil
}

// SetMode implements ports.DrawingEngine.
func (e *Engine) SetMode(mode domain.Mode, behaviors []domain.Behavior) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpSetMode)
	e.mode = mode
	e.behaviors = append([]domain.Behavior(nil), behaviors...)
	return nil
}

// ExpandAllCombos implements ports.DrawingEngine.
func (e *Engine) ExpandAllCombos() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpExpandCombos)
	e.expanded = true
	return nil
}

// CollapseCombo simulates the operator collapsing a combo in Snapshot mode.
func (e *Engine) CollapseCombo() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expanded = false
}

// ShowRenderAffordance implements ports.DrawingEngine.
func (e *Engine) ShowRenderAffordance(visible bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpRenderAffordance)
	e.affordance = visible
	return nil
}

// Clear implements ports.DrawingEngine.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpClear)
	e.data = domain.Snapshot{}.Normalize()
	e.rendered = domain.Snapshot{}.Normalize()
	return nil
}

// ExportImage implements ports.DrawingEngine.
func (e *Engine) ExportImage(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(domain.OpExportImage)
	e.exports = append(e.exports, name)
	return nil
}

// Calls returns the recorded operations in order.
func (e *Engine) Calls() []domain.EngineOp {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.EngineOp(nil), e.calls...)
}

// Count returns how many times op was called.
func (e *Engine) Count(op domain.EngineOp) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if c == op {
			n++
		}
	}
	return n
}

// ResetCalls forgets the recorded operations.
func (e *Engine) ResetCalls() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

// Rendered returns the visible dataset.
func (e *Engine) Rendered() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rendered
}

// Staged returns the current dataset, rendered or not.
func (e *Engine) Staged() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data
}

// Mode returns the active mode and behaviors.
func (e *Engine) Mode() (domain.Mode, []domain.Behavior) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode, append([]domain.Behavior(nil), e.behaviors...)
}

// Animating reports whether a layout animation is running.
func (e *Engine) Animating() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.animating
}

// CombosExpanded reports whether every combo is open.
func (e *Engine) CombosExpanded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expanded
}

// AffordanceVisible reports whether the "render now" control is shown.
func (e *Engine) AffordanceVisible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.affordance
}

// CanvasSize returns the last size passed to ChangeSize.
func (e *Engine) CanvasSize() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvasW, e.canvasH
}

// Layout returns the last applied layout.
func (e *Engine) Layout() domain.LayoutConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout
}

// Focused returns the focused element IDs in order.
func (e *Engine) Focused() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.focused...)
}

// Exports returns the exported image names in order.
func (e *Engine) Exports() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.exports...)
}
