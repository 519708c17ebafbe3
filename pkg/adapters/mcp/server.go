package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/dagview/internal/logging"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/view"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// PushResponse is the result of push_snapshot.
type PushResponse struct {
	View   string `json:"view" jsonschema_description:"The view the snapshot was published to"`
	Nodes  int    `json:"nodes" jsonschema_description:"Number of nodes in the snapshot"`
	Combos int    `json:"combos" jsonschema_description:"Number of combos in the snapshot"`
	Mounts int    `json:"mounts" jsonschema_description:"Diagrams currently showing the view"`
}

// PushArgs are the arguments of push_snapshot.
type PushArgs struct {
	View     string `json:"view"`
	Snapshot string `json:"snapshot"`
}

// Server exposes the view hub as an MCP Server, so agents can inspect and
// drive the dashboard.
type Server struct {
	hub       *view.Hub
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(hub *view.Hub, version string, opts ...Option) *Server {
	s := &Server{
		hub:       hub,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("dagview-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_views",
		mcp.WithDescription("List the dashboard views that have a topology."),
	), s.handleListViews)

	s.mcpServer.AddTool(mcp.NewTool("get_view",
		mcp.WithDescription("Get the latest topology snapshot of a view, with its top-level combos."),
		mcp.WithString("view", mcp.Required(), mcp.Description("View ID")),
	), s.handleGetView)

	pushTool := mcp.NewTool("push_snapshot",
		mcp.WithDescription("Publish a topology snapshot to a view. Mounted diagrams patch or re-render as needed."),
		mcp.WithString("view", mcp.Required(), mcp.Description("View ID")),
		mcp.WithString("snapshot", mcp.Required(), mcp.Description(`JSON object {nodes, edges, combos}, optionally wrapped as {"data": {...}}`)),
		mcp.WithOutputSchema[PushResponse](),
	)
	s.mcpServer.AddTool(pushTool, mcp.NewStructuredToolHandler(s.handlePushSnapshot))

	s.mcpServer.AddTool(mcp.NewTool("focus_element",
		mcp.WithDescription("Center every diagram of a view on a node or combo."),
		mcp.WithString("view", mcp.Required(), mcp.Description("View ID")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node or combo ID")),
	), s.handleFocus)
}

func stringArg(request mcp.CallToolRequest, key string) string {
	v, _ := request.GetArguments()[key].(string)
	return v
}

func (s *Server) handleListViews(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	views, err := s.hub.Views(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(views)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	viewID := stringArg(request, "view")
	snap, err := s.hub.Latest(ctx, viewID)
	if errors.Is(err, domain.ErrViewNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("view %q has no topology", viewID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(map[string]any{
		"snapshot":       snap,
		"topLevelCombos": snap.TopLevelCombos(),
		"mounts":         s.hub.MountCount(viewID),
	})
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handlePushSnapshot(ctx context.Context, request mcp.CallToolRequest, args PushArgs) (PushResponse, error) {
	if args.View == "" {
		return PushResponse{}, fmt.Errorf("%w: view is required", domain.ErrInvalidPayload)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(args.Snapshot), &payload); err != nil {
		return PushResponse{}, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	snap, err := domain.DecodeSnapshot(payload)
	if err != nil {
		return PushResponse{}, err
	}
	if err := s.hub.Publish(ctx, args.View, snap); err != nil {
		s.logger.Error("MCP push_snapshot: publish failed", "view", args.View, "error", err)
		return PushResponse{}, fmt.Errorf("publish failed: %w", err)
	}
	return PushResponse{
		View:   args.View,
		Nodes:  len(snap.Nodes),
		Combos: len(snap.Combos),
		Mounts: s.hub.MountCount(args.View),
	}, nil
}

func (s *Server) handleFocus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	viewID := stringArg(request, "view")
	id := stringArg(request, "id")
	if err := s.hub.Focus(ctx, viewID, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("focus failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("focused %s on %s", viewID, id)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("dagview://views", "Dashboard views",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		views, err := s.hub.Views(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list views: %w", err)
		}
		jsonBytes, _ := json.Marshal(views)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "dagview://views",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
