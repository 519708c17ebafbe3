package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/dagview/internal/logging"
	"github.com/aretw0/dagview/pkg/adapters/memory"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/observability"
	"github.com/aretw0/dagview/pkg/ports"
	"github.com/aretw0/dagview/pkg/render"
)

// maxCascade bounds automatic completions of one step. Each completion can
// start at most one queued render, so this is never reached in practice.
const maxCascade = 8

// Runner replays scripts through a coordinator over a memory engine.
type Runner struct {
	Logger    *slog.Logger
	CoordOpts []render.Option
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithCoordinatorOptions is applied to the replayed coordinator.
func WithCoordinatorOptions(opts ...render.Option) Option {
	return func(r *Runner) {
		r.CoordOpts = append(r.CoordOpts, opts...)
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run replays the script. The returned report covers every step handled;
// replay stops early when the engine is destroyed.
func (r *Runner) Run(ctx context.Context, script *Script) (*Report, error) {
	engine := memory.NewEngine(script.Width, script.Height)

	report := &Report{Name: script.Name}
	var current *StepResult

	upstream := ports.UpstreamFunc(func(ctx context.Context, rep domain.Report) error {
		if current != nil {
			current.Reports = append(current.Reports, rep)
		}
		return nil
	})
	recorder := domain.Hooks{
		OnDecision: func(e *domain.DecisionEvent) {
			if current != nil {
				current.Decisions = append(current.Decisions, e.Decision)
			}
		},
		OnRender: func(e *domain.RenderEvent) {
			if current != nil {
				current.Renders++
			}
		},
	}

	opts := append([]render.Option{}, r.CoordOpts...)
	opts = append(opts,
		render.WithLogger(r.Logger),
		render.WithHooks(observability.Merge(observability.LogHooks(r.Logger), recorder)),
	)
	coord := render.NewCoordinator(engine, upstream, opts...)
	if err := coord.Start(ctx); err != nil {
		return nil, err
	}

	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		current = &StepResult{Index: i + 1, Step: step.Describe()}
		report.Steps = append(report.Steps, current)
		before := len(engine.Calls())

		err := r.apply(ctx, coord, engine, step)
		if err == nil && !script.ManualCompletion {
			err = settle(ctx, coord)
		}

		current.Rendered = engine.NodeIDs()
		current.State = coord.State()
		current.Calls = len(engine.Calls()) - before
		if err != nil {
			current.Err = err.Error()
			if errors.Is(err, domain.ErrEngineDestroyed) {
				r.Logger.Info("engine destroyed, replay stopped", "step", i+1)
				return report, nil
			}
			r.Logger.Warn("step failed", "step", i+1, "error", err)
		}
	}
	return report, nil
}

func (r *Runner) apply(ctx context.Context, coord *render.Coordinator, engine *memory.Engine, step Step) error {
	if step.Destroy {
		engine.Destroy()
		return nil
	}
	cmd, err := step.Command()
	if err != nil {
		return err
	}
	if cmd.Kind == domain.CmdResize {
		engine.SetContainerSize(cmd.Width, cmd.Height)
	}
	return coord.Handle(ctx, cmd)
}

// settle completes in-flight renders, including the ones a queued snapshot
// starts on completion.
func settle(ctx context.Context, coord *render.Coordinator) error {
	for i := 0; i < maxCascade && coord.State().RenderInFlight; i++ {
		if err := coord.Handle(ctx, domain.ControlCommand(domain.CmdRenderComplete)); err != nil {
			return fmt.Errorf("render completion: %w", err)
		}
	}
	return nil
}
