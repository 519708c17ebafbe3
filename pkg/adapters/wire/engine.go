package wire

import (
	"fmt"
	"sync"

	"github.com/aretw0/dagview/pkg/domain"
)

// Sender delivers instructions to the page.
type Sender interface {
	Send(Instruction) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(Instruction) error

// Send implements Sender.
func (f SenderFunc) Send(in Instruction) error { return f(in) }

// Engine is a ports.DrawingEngine whose canvas lives in the browser.
// It mirrors the staged and rendered datasets and the container size the
// page last reported, so queries never need a round trip.
type Engine struct {
	mu     sync.Mutex
	sender Sender

	staged    domain.Snapshot
	rendered  domain.Snapshot
	width     int
	height    int
	destroyed bool
}

// NewEngine creates an engine sending through sender. The container size is
// unknown (zero) until the page reports it.
func NewEngine(sender Sender) *Engine {
	return &Engine{
		sender:   sender,
		staged:   domain.Snapshot{}.Normalize(),
		rendered: domain.Snapshot{}.Normalize(),
	}
}

// Observe updates the mirrored engine state from a page message and returns
// the command it stands for.
func (e *Engine) Observe(msg ClientMessage) (domain.Command, error) {
	cmd, err := msg.Command()
	if err != nil {
		return domain.Command{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	switch cmd.Kind {
	case domain.CmdResize:
		e.width, e.height = cmd.Width, cmd.Height
	case domain.CmdUnmount:
		e.destroyed = true
	}
	return cmd, nil
}

// MarkDestroyed records that the page's canvas is gone, e.g. because the
// connection dropped.
func (e *Engine) MarkDestroyed() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyed = true
}

func (e *Engine) send(op domain.EngineOp, data any) error {
	if e.destroyed {
		return domain.ErrEngineDestroyed
	}
	if err := e.sender.Send(Instruction{Op: op, Data: data}); err != nil {
		return fmt.Errorf("failed to send %s: %w", op, err)
	}
	return nil
}

// Destroyed implements ports.DrawingEngine.
func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// NodeIDs returns the identifiers of the rendered dataset.
func (e *Engine) NodeIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rendered.NodeIDs()
}

// ContainerSize returns the size the page last reported.
func (e *Engine) ContainerSize() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

// Data stages a full replacement; the page shows it on the next render.
func (e *Engine) Data(snapshot domain.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.send(domain.OpData, snapshot); err != nil {
		return err
	}
	e.staged = snapshot
	return nil
}

// ChangeData patches the rendered elements in place.
func (e *Engine) ChangeData(snapshot domain.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.send(domain.OpChangeData, snapshot); err != nil {
		return err
	}
	e.staged = snapshot
	e.rendered = snapshot
	return nil
}

// Render implements ports.DrawingEngine.
func (e *Engine) Render() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.send(domain.OpRender, nil); err != nil {
		return err
	}
	e.rendered = e.staged
	return nil
}

// UpdateLayout implements ports.DrawingEngine.
func (e *Engine) UpdateLayout(layout domain.LayoutConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(domain.OpUpdateLayout, layout)
}

// ChangeSize implements ports.DrawingEngine.
func (e *Engine) ChangeSize(width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(domain.OpChangeSize, Size{Width: width, Height: height})
}

// FitView implements ports.DrawingEngine.
func (e *Engine) FitView(padding int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(domain.OpFitView, map[string]int{"padding": padding})
}

// FocusItem implements ports.DrawingEngine.
func (e *Engine) FocusItem(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(domain.OpFocusItem, map[string]string{"id": id})
}

// StopAnimation implements ports.DrawingEngine.
func (e *Engine) StopAnimation() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(domain.OpStopAnimation, nil)
}

// SetMode implements ports.DrawingEngine.
func (e *Engine) SetMode(mode domain.Mode, behaviors []domain.Behavior) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(domain.OpSetMode, ModePayload{Mode: mode, Behaviors: behaviors})
}

// ExpandAllCombos implements ports.DrawingEngine.
func (e *Engine) ExpandAllCombos() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(domain.OpExpandCombos, nil)
}

// ShowRenderAffordance implements ports.DrawingEngine.
func (e *Engine) ShowRenderAffordance(visible bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(domain.OpRenderAffordance, map[string]bool{"visible": visible})
}

// Clear implements ports.DrawingEngine.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.send(domain.OpClear, nil); err != nil {
		return err
	}
	e.staged = domain.Snapshot{}.Normalize()
	e.rendered = domain.Snapshot{}.Normalize()
	return nil
}

// ExportImage implements ports.DrawingEngine.
func (e *Engine) ExportImage(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.send(domain.OpExportImage, map[string]string{"name": name})
}
