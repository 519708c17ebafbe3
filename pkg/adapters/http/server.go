package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/dagview/internal/logging"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/observability"
	"github.com/aretw0/dagview/pkg/render"
	"github.com/aretw0/dagview/pkg/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxSnapshotBytes bounds an ingested topology payload.
const maxSnapshotBytes = 8 << 20

// Server exposes the view hub over HTTP, SSE and websocket.
type Server struct {
	Hub *view.Hub

	logger    *slog.Logger
	metrics   *observability.Metrics
	gatherer  prometheus.Gatherer
	coordOpts []render.Option
	version   string
	upgrader  websocket.Upgrader
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records coordinator and mount metrics, and serves gatherer on
// /metrics.
func WithMetrics(metrics *observability.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = metrics
		s.gatherer = gatherer
	}
}

// WithCoordinatorOptions is applied to the coordinator of every mount.
func WithCoordinatorOptions(opts ...render.Option) Option {
	return func(s *Server) {
		s.coordOpts = append(s.coordOpts, opts...)
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(version)
	}
}

// NewServer creates a Server over the hub.
func NewServer(hub *view.Hub, opts ...Option) *Server {
	s := &Server{
		Hub:     hub,
		logger:  logging.NewNop(),
		version: "dev",
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for the hub.
func NewHandler(hub *view.Hub, opts ...Option) http.Handler {
	return NewServer(hub, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/views", func(r chi.Router) {
		r.Get("/", s.ListViews)
		r.Route("/{view}", func(r chi.Router) {
			r.Get("/", s.GetView)
			r.Delete("/", s.DeleteView)
			r.Post("/snapshot", s.PostSnapshot)
			r.Post("/focus", s.PostFocus)
			r.Post("/focus-path", s.PostFocusPath)
			r.Get("/reports", s.SubscribeReports)
			r.Get("/live", s.Live)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrViewNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPayload):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PostSnapshot handles POST /views/{view}/snapshot.
func (s *Server) PostSnapshot(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "view")

	var payload map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSnapshotBytes)).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PostSnapshot: Invalid request body", "view", viewID, "error", err)
		return
	}

	snap, err := domain.DecodeSnapshot(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		s.logger.Warn("PostSnapshot: Invalid snapshot", "view", viewID, "error", err)
		return
	}

	if err := s.Hub.Publish(r.Context(), viewID, snap); err != nil {
		http.Error(w, fmt.Sprintf("Publish error: %v", err), statusOf(err))
		s.logger.Error("Publish failed", "view", viewID, "error", err)
		return
	}
	if s.metrics != nil {
		s.metrics.ObservePublish(viewID, s.Hub.MountCount(viewID))
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"nodes":  len(snap.Nodes),
		"edges":  len(snap.Edges),
		"combos": len(snap.Combos),
		"mounts": s.Hub.MountCount(viewID),
	})
}

// PostFocus handles POST /views/{view}/focus.
func (s *Server) PostFocus(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "view")

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.Hub.Focus(r.Context(), viewID, body.ID); err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// PostFocusPath handles POST /views/{view}/focus-path. The log panel sends
// the path either as a list or as a slash-separated string.
func (s *Server) PostFocusPath(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "view")

	var body struct {
		Path json.RawMessage `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var path []string
	var raw string
	switch {
	case json.Unmarshal(body.Path, &path) == nil:
	case json.Unmarshal(body.Path, &raw) == nil:
		path = render.SplitPath(raw)
	default:
		http.Error(w, "path must be a string or a list of strings", http.StatusBadRequest)
		return
	}
	if len(path) == 0 {
		http.Error(w, "empty path", http.StatusBadRequest)
		return
	}

	if err := s.Hub.Upstream(viewID).ReportFocusPath(r.Context(), path); err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ListViews handles GET /views.
func (s *Server) ListViews(w http.ResponseWriter, r *http.Request) {
	views, err := s.Hub.Views(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("List views failed", "error", err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// GetView handles GET /views/{view}.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "view")
	snap, err := s.Hub.Latest(r.Context(), viewID)
	if err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DeleteView handles DELETE /views/{view}.
func (s *Server) DeleteView(w http.ResponseWriter, r *http.Request) {
	viewID := chi.URLParam(r, "view")
	if err := s.Hub.Delete(r.Context(), viewID); err != nil {
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "dagview-http",
		"version": s.version,
	})
}

// SubscribeReports handles GET /views/{view}/reports (SSE).
func (s *Server) SubscribeReports(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeReports: Streaming not supported")
		return
	}
	viewID := chi.URLParam(r, "view")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Hub.SubscribeReports(viewID)
	defer cancel()
	s.logger.Info("SSE: Subscribing to view reports", "view", viewID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "view", viewID)
			return
		case report, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(report)
			if err != nil {
				s.logger.Error("SSE: report encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", report.Name, data)
			flusher.Flush()
		}
	}
}
