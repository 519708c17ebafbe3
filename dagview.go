package dagview

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/dagview/internal/logging"
	httpAdapter "github.com/aretw0/dagview/pkg/adapters/http"
	"github.com/aretw0/dagview/pkg/adapters/mcp"
	"github.com/aretw0/dagview/pkg/adapters/memory"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/observability"
	"github.com/aretw0/dagview/pkg/ports"
	"github.com/aretw0/dagview/pkg/render"
	"github.com/aretw0/dagview/pkg/runner"
	"github.com/aretw0/dagview/pkg/view"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Dashboard is the high-level entry point. It wires the view hub, its
// store, the metrics and the coordinator settings shared by every mount.
type Dashboard struct {
	Hub      *view.Hub
	Metrics  *observability.Metrics
	Registry *prometheus.Registry

	store       ports.SnapshotStore
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	mountBuffer int
	coordOpts   []render.Option
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Dashboard.
type Option func(*Dashboard)

// WithStore sets the snapshot store. Defaults to an in-memory store.
func WithStore(store ports.SnapshotStore) Option {
	return func(d *Dashboard) {
		d.store = store
	}
}

// WithLocker orders publications across replicas.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(d *Dashboard) {
		d.locker = locker
		d.lockTTL = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dashboard) {
		d.logger = logger
	}
}

// WithLayout sets the layout applied by every diagram.
func WithLayout(layout domain.LayoutConfig) Option {
	return func(d *Dashboard) {
		d.coordOpts = append(d.coordOpts, render.WithLayout(layout))
	}
}

// WithFocusModifier sets the key qualifying focus clicks.
func WithFocusModifier(modifier string) Option {
	return func(d *Dashboard) {
		if modifier != "" {
			d.coordOpts = append(d.coordOpts, render.WithFocusModifier(modifier))
		}
	}
}

// WithExportName sets the file name of exported images.
func WithExportName(name string) Option {
	return func(d *Dashboard) {
		d.coordOpts = append(d.coordOpts, render.WithExportName(name))
	}
}

// WithMountBuffer sets the per-mount command buffer of the hub.
func WithMountBuffer(size int) Option {
	return func(d *Dashboard) {
		d.mountBuffer = size
	}
}

// New creates a Dashboard.
func New(opts ...Option) *Dashboard {
	d := &Dashboard{
		store:    memory.NewStore(),
		logger:   logging.NewNop(),
		Registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	d.Metrics = observability.NewMetrics(d.Registry)

	hubOpts := []view.Option{view.WithLogger(d.logger), view.WithMountBuffer(d.mountBuffer)}
	if d.locker != nil {
		hubOpts = append(hubOpts, view.WithLocker(d.locker, d.lockTTL))
	}
	d.Hub = view.NewHub(d.store, hubOpts...)
	return d
}

// Handler returns the HTTP surface: ingest, focus, reports, live mounts,
// health, info and metrics.
func (d *Dashboard) Handler() http.Handler {
	return httpAdapter.NewHandler(d.Hub,
		httpAdapter.WithLogger(d.logger),
		httpAdapter.WithMetrics(d.Metrics, d.Registry),
		httpAdapter.WithCoordinatorOptions(d.coordOpts...),
		httpAdapter.WithVersion(Version),
	)
}

// MCP returns an MCP server over the hub.
func (d *Dashboard) MCP() *mcp.Server {
	return mcp.NewServer(d.Hub, Version, mcp.WithLogger(d.logger))
}

// Replay runs a script with the dashboard's coordinator settings.
func (d *Dashboard) Replay(ctx context.Context, script *runner.Script) (*runner.Report, error) {
	r := runner.NewRunner(
		runner.WithLogger(d.logger),
		runner.WithCoordinatorOptions(d.coordOpts...),
	)
	return r.Run(ctx, script)
}
