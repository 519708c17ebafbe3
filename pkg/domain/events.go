package domain

import (
	"time"
)

// Decision is the outcome of processing one snapshot.
type Decision string

const (
	DecisionPatch    Decision = "patch"    // same structure, data patched in place
	DecisionRender   Decision = "render"   // full render pass
	DecisionDefer    Decision = "defer"    // structure replaced, render waits for the operator
	DecisionQueued   Decision = "queued"   // held until the in-flight render completes
	DecisionCoalesce Decision = "coalesce" // a queued snapshot was superseded
)

// Outbound report names sent to the server-held view.
const (
	ReportTopLevelCombos = "top-level-combos"
	ReportFocusPath      = "focus-path"
)

// Report is an outbound event for the server-held view.
type Report struct {
	Name   string   `json:"name"`
	Combos []Combo  `json:"combos,omitempty"`
	Path   []string `json:"path,omitempty"`
}

// DecisionEvent describes one snapshot decision.
type DecisionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Decision  Decision  `json:"decision"`
	Nodes     int       `json:"nodes"`
	Combos    int       `json:"combos"`
	Changed   bool      `json:"changed"`
}

// RenderEvent describes one render pass.
type RenderEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Manual    bool      `json:"manual"`
	Nodes     int       `json:"nodes"`
}

// Hooks are optional observability callbacks of a coordinator.
type Hooks struct {
	OnDecision    func(*DecisionEvent)
	OnRender      func(*RenderEvent)
	OnInteraction func(InteractionKind)
	OnModeChange  func(from, to Mode)
}
