package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/dagview/internal/logging"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/ports"
)

// DefaultMountBuffer is the per-mount command buffer.
const DefaultMountBuffer = 16

// Hub is the server-held state of every view.
type Hub struct {
	store  ports.SnapshotStore
	locks  *keyLocks
	logger *slog.Logger
	buffer int

	mu        sync.RWMutex
	mounts    map[string]map[*mount]struct{}
	listeners map[string]map[chan domain.Report]struct{}
	combos    map[string][]domain.Combo

	// OnPublish is called after a snapshot was stored and fanned out.
	OnPublish func(viewID string, mounts int)
}

type mount struct {
	ch chan domain.Command
}

// Option configures the Hub.
type Option func(*Hub)

// WithLocker enables cross-replica ordering of publications.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(h *Hub) {
		h.locks.locker = locker
		if ttl > 0 {
			h.locks.ttl = ttl
		}
	}
}

// WithLogger configures a logger for the Hub.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
		h.locks.logger = logger
	}
}

// WithMountBuffer sets the per-mount command buffer.
func WithMountBuffer(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.buffer = size
		}
	}
}

// NewHub creates a Hub backed by the given store.
func NewHub(store ports.SnapshotStore, opts ...Option) *Hub {
	logger := logging.NewNop()
	h := &Hub{
		store:     store,
		locks:     newKeyLocks(logger),
		logger:    logger,
		buffer:    DefaultMountBuffer,
		mounts:    make(map[string]map[*mount]struct{}),
		listeners: make(map[string]map[chan domain.Report]struct{}),
		combos:    make(map[string][]domain.Combo),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Publish stores the snapshot as the view's latest and delivers it to every
// mount of the view. Publications of one view are delivered in the order
// they were stored.
func (h *Hub) Publish(ctx context.Context, viewID string, snap domain.Snapshot) error {
	snap = snap.Normalize()
	return h.locks.withLock(ctx, viewID, true, func(ctx context.Context) error {
		if err := h.store.Save(ctx, viewID, snap); err != nil {
			return fmt.Errorf("failed to store snapshot: %w", err)
		}
		n := h.fanout(viewID, domain.SnapshotCommand(snap))
		h.logger.Debug("snapshot published", "view", viewID, "nodes", len(snap.Nodes), "mounts", n)
		if h.OnPublish != nil {
			h.OnPublish(viewID, n)
		}
		return nil
	})
}

// Focus asks every mount of the view to center on an element.
func (h *Hub) Focus(ctx context.Context, viewID, elementID string) error {
	if elementID == "" {
		return fmt.Errorf("%w: empty element id", domain.ErrInvalidPayload)
	}
	return h.locks.withLock(ctx, viewID, false, func(ctx context.Context) error {
		h.fanout(viewID, domain.FocusCommand(elementID))
		return nil
	})
}

// Mount subscribes a diagram to the view. The latest stored snapshot, if
// any, is the first command delivered.
func (h *Hub) Mount(ctx context.Context, viewID string) (<-chan domain.Command, func(), error) {
	m := &mount{ch: make(chan domain.Command, h.buffer)}

	err := h.locks.withLock(ctx, viewID, false, func(ctx context.Context) error {
		latest, err := h.store.Load(ctx, viewID)
		switch {
		case err == nil:
			m.ch <- domain.SnapshotCommand(latest)
		case errors.Is(err, domain.ErrViewNotFound):
		default:
			return fmt.Errorf("failed to load latest snapshot: %w", err)
		}

		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.mounts[viewID]; !ok {
			h.mounts[viewID] = make(map[*mount]struct{})
		}
		h.mounts[viewID][m] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var once sync.Once
	return m.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.mounts[viewID]; ok {
				delete(subs, m)
				if len(subs) == 0 {
					delete(h.mounts, viewID)
				}
			}
			close(m.ch)
		})
	}, nil
}

// MountCount returns the number of mounted diagrams of the view.
func (h *Hub) MountCount(viewID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.mounts[viewID])
}

func (h *Hub) fanout(viewID string, cmd domain.Command) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs := h.mounts[viewID]
	for m := range subs {
		select {
		case m.ch <- cmd:
			continue
		default:
		}
		if cmd.Kind != domain.CmdSnapshot {
			h.logger.Warn("mount buffer full, dropping command", "view", viewID, "command", cmd.Kind)
			continue
		}
		// Snapshots replace each other, so the oldest pending one can go.
		select {
		case <-m.ch:
		default:
		}
		select {
		case m.ch <- cmd:
		default:
			h.logger.Warn("mount buffer full, dropping snapshot", "view", viewID)
		}
	}
	return len(subs)
}

// SubscribeReports streams the reports mounted diagrams send for the view.
func (h *Hub) SubscribeReports(viewID string) (<-chan domain.Report, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan domain.Report, 10)
	if _, ok := h.listeners[viewID]; !ok {
		h.listeners[viewID] = make(map[chan domain.Report]struct{})
	}
	h.listeners[viewID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.listeners[viewID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(h.listeners, viewID)
				}
			}
		})
	}
}

func (h *Hub) broadcast(viewID string, report domain.Report) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.listeners[viewID] {
		select {
		case ch <- report:
		default:
			// Drop message if channel is full (slow client)
			h.logger.Warn("report listener buffer full, dropping report", "view", viewID, "report", report.Name)
		}
	}
}

// Upstream returns the report sink for diagrams mounted on the view.
func (h *Hub) Upstream(viewID string) ports.Upstream {
	return &upstream{hub: h, viewID: viewID}
}

// TopLevelCombos returns the last top-level combos reported for the view.
func (h *Hub) TopLevelCombos(viewID string) []domain.Combo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]domain.Combo(nil), h.combos[viewID]...)
}

// Latest returns the view's stored snapshot.
func (h *Hub) Latest(ctx context.Context, viewID string) (domain.Snapshot, error) {
	return h.store.Load(ctx, viewID)
}

// Views lists the known views, sorted.
func (h *Hub) Views(ctx context.Context) ([]string, error) {
	views, err := h.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(views)
	return views, nil
}

// Delete forgets a view. Mounted diagrams keep their current content.
func (h *Hub) Delete(ctx context.Context, viewID string) error {
	return h.locks.withLock(ctx, viewID, true, func(ctx context.Context) error {
		h.mu.Lock()
		delete(h.combos, viewID)
		h.mu.Unlock()
		return h.store.Delete(ctx, viewID)
	})
}

type upstream struct {
	hub    *Hub
	viewID string
}

// ReportTopLevelCombos records the combos; listeners only hear about them
// when the set of combo identities changed, since every mount reports on
// every snapshot.
func (u *upstream) ReportTopLevelCombos(ctx context.Context, combos []domain.Combo) error {
	u.hub.mu.Lock()
	prev, seen := u.hub.combos[u.viewID]
	changed := !seen || domain.CombosDiffer(prev, combos)
	u.hub.combos[u.viewID] = append([]domain.Combo{}, combos...)
	u.hub.mu.Unlock()

	if changed {
		u.hub.broadcast(u.viewID, domain.Report{Name: domain.ReportTopLevelCombos, Combos: combos})
	}
	return nil
}

// ReportFocusPath forwards the path to listeners.
func (u *upstream) ReportFocusPath(ctx context.Context, path []string) error {
	if len(path) == 0 {
		return nil
	}
	u.hub.broadcast(u.viewID, domain.Report{Name: domain.ReportFocusPath, Path: path})
	return nil
}
