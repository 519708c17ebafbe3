package domain

// EngineOp names a drawing engine operation. The names double as the op
// field of wire instructions sent to the browser.
type EngineOp string

const (
	OpData             EngineOp = "data"
	OpChangeData       EngineOp = "change_data"
	OpRender           EngineOp = "render"
	OpUpdateLayout     EngineOp = "update_layout"
	OpChangeSize       EngineOp = "change_size"
	OpFitView          EngineOp = "fit_view"
	OpFocusItem        EngineOp = "focus_item"
	OpStopAnimation    EngineOp = "stop_animation"
	OpSetMode          EngineOp = "set_mode"
	OpExpandCombos     EngineOp = "expand_combos"
	OpRenderAffordance EngineOp = "render_affordance"
	OpClear            EngineOp = "clear"
	OpExportImage      EngineOp = "export_image"
)
