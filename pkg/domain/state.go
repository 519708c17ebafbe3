package domain

// Mode is the interaction mode of a diagram.
type Mode string

const (
	ModePreview  Mode = "preview"  // pan and zoom only, combos always expanded
	ModeSnapshot Mode = "snapshot" // drag and collapse/expand permitted
)

// Behavior names one interaction affordance the drawing engine enables.
type Behavior string

const (
	BehaviorDragCanvas     Behavior = "drag-canvas"
	BehaviorZoomCanvas     Behavior = "zoom-canvas"
	BehaviorDragNode       Behavior = "drag-node"
	BehaviorDragCombo      Behavior = "drag-combo"
	BehaviorCollapseExpand Behavior = "collapse-expand-combo"
)

// Behaviors returns the affordances enabled in the mode.
func (m Mode) Behaviors() []Behavior {
	base := []Behavior{BehaviorDragCanvas, BehaviorZoomCanvas}
	if m == ModeSnapshot {
		return append(base, BehaviorDragCombo, BehaviorDragNode, BehaviorCollapseExpand)
	}
	return base
}

// Editable reports whether structural editing is permitted.
func (m Mode) Editable() bool {
	return m == ModeSnapshot
}

// DiagramState is the mutable state owned by one diagram mount.
// It lives from mount to unmount and is never persisted.
type DiagramState struct {
	// LastAppliedNodeIDs mirrors the node identifiers of the last rendered snapshot.
	// Render decisions ask the engine instead; this copy is for status reporting.
	LastAppliedNodeIDs []string `json:"last_applied_node_ids"`

	// HasInteractedSinceLastRender is set by the interaction tracker and
	// cleared on every render.
	HasInteractedSinceLastRender bool `json:"has_interacted_since_last_render"`

	Mode Mode `json:"mode"`

	// PendingRenderVisible tells whether the "render now" affordance is shown.
	PendingRenderVisible bool `json:"pending_render_visible"`

	// CombosExpanded is true while Preview holds every combo open. It is
	// cleared on entering Snapshot, where combos may be collapsed.
	CombosExpanded bool `json:"combos_expanded"`

	// RenderInFlight is true between a render pass and its completion event.
	RenderInFlight bool `json:"render_in_flight"`

	// RenderSuppressed is true when a render was skipped because the
	// container had no size yet.
	RenderSuppressed bool `json:"render_suppressed"`
}

// NewDiagramState returns the state of a freshly mounted diagram.
func NewDiagramState() *DiagramState {
	return &DiagramState{
		LastAppliedNodeIDs: []string{},
		Mode:               ModePreview,
	}
}

// Snapshot returns a copy safe to hand to other goroutines.
func (s *DiagramState) Snapshot() DiagramState {
	cp := *s
	cp.LastAppliedNodeIDs = append([]string(nil), s.LastAppliedNodeIDs...)
	return cp
}
