package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/dagview/pkg/domain"
)

// Overlay contains dynamic state data to visualize on the graph.
type Overlay struct {
	// Focused elements (a focus path) are highlighted.
	Focused []string
}

// GenerateMermaid produces a Mermaid flowchart from a snapshot.
// Combos become nested subgraphs; nodes of unknown combos and combos with an
// unknown parent are drawn at the top level. rankDir defaults to LR.
func GenerateMermaid(snap domain.Snapshot, rankDir string, overlay *Overlay) string {
	if rankDir == "" {
		rankDir = "LR"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "graph %s\n", rankDir)

	combos := make(map[string]bool, len(snap.Combos))
	for _, c := range snap.Combos {
		combos[c.ID] = true
	}

	children := make(map[string][]domain.Combo)
	for _, c := range snap.Combos {
		parent := c.ParentID
		if !combos[parent] {
			parent = ""
		}
		children[parent] = append(children[parent], c)
	}

	members := make(map[string][]domain.Node)
	for _, n := range snap.Nodes {
		combo := n.ComboID
		if !combos[combo] {
			combo = ""
		}
		members[combo] = append(members[combo], n)
	}

	// Cycles in parent links never reach the roots; drawn guards against
	// writing a combo twice.
	drawn := make(map[string]bool)
	var writeCombo func(c domain.Combo, depth int)
	writeCombo = func(c domain.Combo, depth int) {
		if drawn[c.ID] {
			return
		}
		drawn[c.ID] = true

		indent := strings.Repeat("    ", depth)
		fmt.Fprintf(&sb, "%ssubgraph %s[\"%s\"]\n", indent, sanitizeMermaidID(c.ID), escape(labelOf(c.Label, c.ID)))
		for _, child := range children[c.ID] {
			writeCombo(child, depth+1)
		}
		for _, n := range members[c.ID] {
			writeNode(&sb, n, depth+1)
		}
		fmt.Fprintf(&sb, "%send\n", indent)
	}

	for _, c := range children[""] {
		writeCombo(c, 1)
	}
	for _, n := range members[""] {
		writeNode(&sb, n, 1)
	}

	for _, e := range snap.Edges {
		if e.Label != "" {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", sanitizeMermaidID(e.Source), escape(e.Label), sanitizeMermaidID(e.Target))
			continue
		}
		fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(e.Source), sanitizeMermaidID(e.Target))
	}

	if overlay != nil && len(overlay.Focused) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme
		sb.WriteString("    classDef focused fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Focused {
			safeID := sanitizeMermaidID(id)
			if safeID == "" || seen[safeID] {
				continue
			}
			seen[safeID] = true
			fmt.Fprintf(&sb, "    class %s focused;\n", safeID)
		}
	}

	return sb.String()
}

func writeNode(sb *strings.Builder, n domain.Node, depth int) {
	indent := strings.Repeat("    ", depth)
	fmt.Fprintf(sb, "%s%s[\"%s\"]\n", indent, sanitizeMermaidID(n.ID), escape(labelOf(n.Label, n.ID)))
}

func labelOf(label, id string) string {
	if label != "" {
		return label
	}
	return id
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
