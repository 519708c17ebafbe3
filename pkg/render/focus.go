package render

import (
	"strings"

	"github.com/aretw0/dagview/pkg/domain"
)

// DefaultFocusModifier is the key that qualifies a click as a focus request.
const DefaultFocusModifier = "shift"

// FocusResolver maps modifier clicks to the structural path the server
// understands.
type FocusResolver struct {
	modifier string
}

// NewFocusResolver returns a resolver qualified by the given modifier key.
func NewFocusResolver(modifier string) *FocusResolver {
	if modifier == "" {
		modifier = DefaultFocusModifier
	}
	return &FocusResolver{modifier: modifier}
}

// Modifier returns the qualifying key.
func (r *FocusResolver) Modifier() string {
	return r.modifier
}

// Resolve returns the structural path of the clicked element.
//
// The propagation path runs from the innermost hit outwards: the label text
// first, then the node or combo that owns it, then its containers up to the
// diagram root. The label entry is dropped. An element carrying its own path
// reports it as is; otherwise the path is the chain of container IDs from the
// root down to the element. Entries without an ID are the canvas itself.
func (r *FocusResolver) Resolve(click domain.ClickEvent) ([]string, bool) {
	if !click.Has(r.modifier) {
		return nil, false
	}
	if len(click.Path) < 2 {
		return nil, false
	}

	target := click.Path[1]
	if len(target.Path) > 0 {
		return append([]string(nil), target.Path...), true
	}

	chain := click.Path[1:]
	path := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].ID == "" {
			continue
		}
		path = append(path, chain[i].ID)
	}
	if len(path) == 0 {
		return nil, false
	}
	return path, true
}

// SplitPath parses a slash-joined path as shown by the log panel.
func SplitPath(raw string) []string {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	path := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			path = append(path, p)
		}
	}
	return path
}
