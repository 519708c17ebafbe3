package observability

import (
	"log/slog"

	"github.com/aretw0/dagview/pkg/domain"
)

// LogHooks logs every coordinator event at debug level.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnDecision: func(e *domain.DecisionEvent) {
			logger.Debug("Snapshot decision",
				"decision", e.Decision,
				"nodes", e.Nodes,
				"combos", e.Combos,
				"changed", e.Changed,
			)
		},
		OnRender: func(e *domain.RenderEvent) {
			logger.Debug("Render", "manual", e.Manual, "nodes", e.Nodes)
		},
		OnInteraction: func(kind domain.InteractionKind) {
			logger.Debug("Manual interaction", "kind", kind)
		},
		OnModeChange: func(from, to domain.Mode) {
			logger.Debug("Mode change", "from", from, "to", to)
		},
	}
}

// Merge returns hooks calling each of the given hooks in order.
func Merge(all ...domain.Hooks) domain.Hooks {
	var merged domain.Hooks
	for _, h := range all {
		h := h
		if h.OnDecision != nil {
			prev := merged.OnDecision
			merged.OnDecision = func(e *domain.DecisionEvent) {
				if prev != nil {
					prev(e)
				}
				h.OnDecision(e)
			}
		}
		if h.OnRender != nil {
			prev := merged.OnRender
			merged.OnRender = func(e *domain.RenderEvent) {
				if prev != nil {
					prev(e)
				}
				h.OnRender(e)
			}
		}
		if h.OnInteraction != nil {
			prev := merged.OnInteraction
			merged.OnInteraction = func(kind domain.InteractionKind) {
				if prev != nil {
					prev(kind)
				}
				h.OnInteraction(kind)
			}
		}
		if h.OnModeChange != nil {
			prev := merged.OnModeChange
			merged.OnModeChange = func(from, to domain.Mode) {
				if prev != nil {
					prev(from, to)
				}
				h.OnModeChange(from, to)
			}
		}
	}
	return merged
}
