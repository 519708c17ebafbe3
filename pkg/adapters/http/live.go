package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/dagview/pkg/adapters/wire"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/observability"
	"github.com/aretw0/dagview/pkg/render"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const writeWait = 10 * time.Second

// Live handles GET /views/{view}/live. Each connection is one mounted
// diagram: a coordinator driving the page's canvas through a wire engine.
func (s *Server) Live(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "view")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade the websocket", "view", viewID, "error", err)
		return
	}
	defer conn.Close()

	mountID := uuid.NewString()
	logger := s.logger.With("view", viewID, "mount_id", mountID)
	logger.Info("Diagram mounted")

	var writeMu sync.Mutex
	engine := wire.NewEngine(wire.SenderFunc(func(in wire.Instruction) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(in)
	}))

	hooks := observability.LogHooks(logger)
	if s.metrics != nil {
		hooks = observability.Merge(hooks, s.metrics.Hooks())
		s.metrics.Mounts.Inc()
		defer s.metrics.Mounts.Dec()
	}
	opts := append([]render.Option{}, s.coordOpts...)
	opts = append(opts, render.WithLogger(logger), render.WithMountID(mountID), render.WithHooks(hooks))

	coord := render.NewCoordinator(engine, s.Hub.Upstream(viewID), opts...)
	loop := render.NewLoop(coord, render.WithLoopLogger(logger))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	cmds, unmount, err := s.Hub.Mount(ctx, viewID)
	if err != nil {
		logger.Error("failed to mount view", "error", err)
		return
	}
	defer unmount()

	// View commands.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case cmd, ok := <-cmds:
				if !ok {
					return
				}
				if err := loop.Dispatch(ctx, cmd); err != nil {
					return
				}
			}
		}
	}()

	// Page events.
	go func() {
		defer cancel()
		for {
			var msg wire.ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				engine.MarkDestroyed()
				logger.Info("Websocket client disconnected", "error", err.Error())
				return
			}
			cmd, err := engine.Observe(msg)
			if err != nil {
				logger.Warn("ignoring page message", "event", msg.Event, "error", err)
				continue
			}
			if err := loop.Dispatch(ctx, cmd); err != nil {
				return
			}
			if cmd.Kind == domain.CmdUnmount {
				return
			}
		}
	}()

	err = loop.Run(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, domain.ErrEngineDestroyed):
		logger.Info("Diagram unmounted")
	default:
		logger.Error("diagram loop failed", "error", err)
	}
}
