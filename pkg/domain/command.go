package domain

// CommandKind names an input of the diagram coordinator.
type CommandKind string

const (
	// Server-held view events.
	CmdSnapshot CommandKind = "snapshot"
	CmdFocus    CommandKind = "focus"

	// User controls.
	CmdToggleMode CommandKind = "toggle-mode"
	CmdFitView    CommandKind = "fit-view"
	CmdRelayout   CommandKind = "relayout"
	CmdClear      CommandKind = "clear"
	CmdExport     CommandKind = "export"
	CmdRenderNow  CommandKind = "render-now"

	// Drawing engine and surface events.
	CmdRenderComplete CommandKind = "render-complete"
	CmdInteraction    CommandKind = "interaction"
	CmdClick          CommandKind = "click"
	CmdResize         CommandKind = "resize"
	CmdUnmount        CommandKind = "unmount"
)

// InteractionKind is the kind of a pointer event on the diagram surface.
type InteractionKind string

const (
	InteractionClick      InteractionKind = "click"
	InteractionDragStart  InteractionKind = "dragstart"
	InteractionTouchStart InteractionKind = "touchstart"
	InteractionWheel      InteractionKind = "wheel"
	InteractionMove       InteractionKind = "mousemove"
)

// Hit is one entry of a click propagation path, innermost first.
type Hit struct {
	ID   string   `json:"id" mapstructure:"id"`
	Path []string `json:"path,omitempty" mapstructure:"path"`
}

// ClickEvent is a click on the diagram with the modifiers held and the hit
// elements from innermost (the label text) outwards to the diagram root.
type ClickEvent struct {
	Modifiers []string `json:"modifiers" mapstructure:"modifiers"`
	Path      []Hit    `json:"path" mapstructure:"path"`
}

// Has reports whether the modifier was held.
func (c ClickEvent) Has(modifier string) bool {
	for _, m := range c.Modifiers {
		if m == modifier {
			return true
		}
	}
	return false
}

// Command is one input dispatched into the coordinator.
// Only the fields relevant to Kind are set.
type Command struct {
	Kind        CommandKind
	Snapshot    Snapshot
	FocusID     string
	Interaction InteractionKind
	Click       ClickEvent
	Width       int
	Height      int
}

// SnapshotCommand wraps a topology snapshot.
func SnapshotCommand(s Snapshot) Command {
	return Command{Kind: CmdSnapshot, Snapshot: s}
}

// FocusCommand asks the diagram to center on an element.
func FocusCommand(id string) Command {
	return Command{Kind: CmdFocus, FocusID: id}
}

// ControlCommand wraps a parameterless user control.
func ControlCommand(kind CommandKind) Command {
	return Command{Kind: kind}
}

// InteractionCommand reports a pointer event on the surface.
func InteractionCommand(kind InteractionKind) Command {
	return Command{Kind: CmdInteraction, Interaction: kind}
}

// ClickCommand reports a click with its propagation path.
func ClickCommand(c ClickEvent) Command {
	return Command{Kind: CmdClick, Click: c}
}

// ResizeCommand reports the container's current size.
func ResizeCommand(width, height int) Command {
	return Command{Kind: CmdResize, Width: width, Height: height}
}

// IsControl reports whether the kind is one of the user controls.
func (k CommandKind) IsControl() bool {
	switch k {
	case CmdToggleMode, CmdFitView, CmdRelayout, CmdClear, CmdExport, CmdRenderNow:
		return true
	}
	return false
}
