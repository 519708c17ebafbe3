package ports

import (
	"github.com/aretw0/dagview/pkg/domain"
)

// DrawingEngine is the graph-drawing engine a coordinator exclusively owns
// for the lifetime of one mount. The engine performs layout itself; the
// coordinator only decides when and how data reaches it.
//
// Render is asynchronous from the coordinator's point of view: completion is
// reported back as a domain.CmdRenderComplete command.
type DrawingEngine interface {
	// Destroyed reports whether the engine was torn down.
	Destroyed() bool

	// NodeIDs returns the identifiers of the dataset currently rendered.
	NodeIDs() []string

	// ContainerSize returns the laid-out size of the canvas container.
	ContainerSize() (width, height int)

	// Data replaces the whole dataset. The new data is shown on the next Render.
	Data(snapshot domain.Snapshot) error

	// ChangeData patches existing elements in place without re-layout.
	ChangeData(snapshot domain.Snapshot) error

	// Render runs a render pass over the current dataset.
	Render() error

	// UpdateLayout applies a layout configuration and recomputes positions.
	UpdateLayout(layout domain.LayoutConfig) error

	ChangeSize(width, height int) error
	FitView(padding int) error
	FocusItem(id string) error

	// StopAnimation cancels an in-flight layout animation.
	StopAnimation() error

	// SetMode switches the enabled interaction behaviors.
	SetMode(mode domain.Mode, behaviors []domain.Behavior) error

	// ExpandAllCombos forces every combo into its expanded state.
	ExpandAllCombos() error

	// ShowRenderAffordance toggles the manual "render now" control.
	ShowRenderAffordance(visible bool) error

	// Clear removes every element.
	Clear() error

	// ExportImage downloads the canvas as an image.
	ExportImage(name string) error
}
