package render

import (
	"log/slog"

	"github.com/aretw0/dagview/pkg/domain"
)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(c *Coordinator) {
		c.hooks = hooks
	}
}

// WithLayout overrides the layout applied on every render.
func WithLayout(layout domain.LayoutConfig) Option {
	return func(c *Coordinator) {
		c.layout = layout
	}
}

// WithFocusModifier sets the key qualifying focus clicks (default "shift").
func WithFocusModifier(modifier string) Option {
	return func(c *Coordinator) {
		c.focus = NewFocusResolver(modifier)
	}
}

// WithExportName sets the file name used by the export control.
func WithExportName(name string) Option {
	return func(c *Coordinator) {
		if name != "" {
			c.exportName = name
		}
	}
}

// WithMountID tags log lines with the mount identifier.
func WithMountID(id string) Option {
	return func(c *Coordinator) {
		c.mountID = id
	}
}
