package render

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/dagview/internal/logging"
	"github.com/aretw0/dagview/pkg/domain"
)

// DefaultLoopBuffer is the default number of commands buffered by a Loop.
const DefaultLoopBuffer = 16

// Loop feeds commands to a Coordinator from a single goroutine, in the order
// they were dispatched. It is the event queue of one mount.
type Loop struct {
	coord  *Coordinator
	cmds   chan domain.Command
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the loop logger.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithBuffer sets the command buffer size.
func WithBuffer(size int) LoopOption {
	return func(l *Loop) {
		if size > 0 {
			l.cmds = make(chan domain.Command, size)
		}
	}
}

// NewLoop creates a loop for the coordinator. Call Run to start it.
func NewLoop(coord *Coordinator, opts ...LoopOption) *Loop {
	l := &Loop{
		coord:  coord,
		cmds:   make(chan domain.Command, DefaultLoopBuffer),
		done:   make(chan struct{}),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dispatch enqueues a command. It blocks while the buffer is full.
func (l *Loop) Dispatch(ctx context.Context, cmd domain.Command) error {
	select {
	case <-l.done:
		return domain.ErrLoopClosed
	default:
	}

	select {
	case l.cmds <- cmd:
		return nil
	case <-l.done:
		return domain.ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run processes commands until ctx is canceled, an unmount command is
// handled, or the engine is destroyed.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	if err := l.coord.Start(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			l.coord.Handle(context.Background(), domain.Command{Kind: domain.CmdUnmount})
			return ctx.Err()
		case cmd := <-l.cmds:
			err := l.coord.Handle(ctx, cmd)
			if cmd.Kind == domain.CmdUnmount {
				return nil
			}
			if err == nil {
				continue
			}
			if errors.Is(err, domain.ErrEngineDestroyed) {
				l.logger.Info("engine destroyed, stopping loop")
				return err
			}
			l.logger.Error("command failed", "command", cmd.Kind, "error", err)
		}
	}
}
