package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Node is a single diagram element. Only ID takes part in structural
// comparison; everything else is presentation data patched in place.
type Node struct {
	ID      string         `json:"id" yaml:"id" mapstructure:"id"`
	Label   string         `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	ComboID string         `json:"comboId,omitempty" yaml:"comboId,omitempty" mapstructure:"comboId"`
	Path    []string       `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
	X       *float64       `json:"x,omitempty" yaml:"x,omitempty" mapstructure:"x"`
	Y       *float64       `json:"y,omitempty" yaml:"y,omitempty" mapstructure:"y"`
	Style   map[string]any `json:"style,omitempty" yaml:"style,omitempty" mapstructure:"style"`
}

// Edge connects two nodes. Duplicates are allowed.
type Edge struct {
	Source string `json:"source" yaml:"source" mapstructure:"source"`
	Target string `json:"target" yaml:"target" mapstructure:"target"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
}

// Combo is a container grouping nodes. An empty ParentID means top-level.
type Combo struct {
	ID       string   `json:"id" yaml:"id" mapstructure:"id"`
	ParentID string   `json:"parentId,omitempty" yaml:"parentId,omitempty" mapstructure:"parentId"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Path     []string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// Snapshot is one complete topology payload. A new snapshot always replaces
// the previous one, it is never merged.
type Snapshot struct {
	Nodes  []Node  `json:"nodes" yaml:"nodes" mapstructure:"nodes"`
	Edges  []Edge  `json:"edges" yaml:"edges" mapstructure:"edges"`
	Combos []Combo `json:"combos" yaml:"combos" mapstructure:"combos"`
}

// NodeIDs returns node identifiers in received order.
func (s Snapshot) NodeIDs() []string {
	ids := make([]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// ComboIDs returns combo identifiers in received order.
func (s Snapshot) ComboIDs() []string {
	ids := make([]string, 0, len(s.Combos))
	for _, c := range s.Combos {
		ids = append(ids, c.ID)
	}
	return ids
}

// TopLevelCombos returns the combos without a parent, preserving order.
// The result is never nil so it serializes as an empty array.
func (s Snapshot) TopLevelCombos() []Combo {
	top := make([]Combo, 0)
	for _, c := range s.Combos {
		if c.ParentID == "" {
			top = append(top, c)
		}
	}
	return top
}

// IsEmpty reports whether the snapshot carries no nodes and no combos.
func (s Snapshot) IsEmpty() bool {
	return len(s.Nodes) == 0 && len(s.Combos) == 0
}

// Normalize replaces nil collections with empty ones.
func (s Snapshot) Normalize() Snapshot {
	if s.Nodes == nil {
		s.Nodes = []Node{}
	}
	if s.Edges == nil {
		s.Edges = []Edge{}
	}
	if s.Combos == nil {
		s.Combos = []Combo{}
	}
	return s
}

// DecodeSnapshot decodes a loosely typed push payload into a Snapshot.
// Both the bare shape {nodes, edges, combos} and the wrapped shape
// {data: {nodes, edges, combos}} are accepted. Absent collections decode as
// empty; a nil payload is an empty snapshot.
func DecodeSnapshot(payload map[string]any) (Snapshot, error) {
	if payload == nil {
		return Snapshot{}.Normalize(), nil
	}
	if inner, ok := payload["data"].(map[string]any); ok {
		payload = inner
	}

	var snap Snapshot
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &snap,
		WeaklyTypedInput: true,
		ZeroFields:       true,
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to build snapshot decoder: %w", err)
	}
	if err := decoder.Decode(payload); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return snap.Normalize(), nil
}
