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

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/internal/presentation/graph"
	"github.com/aretw0/interleave/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// AnalyzeResponse is the structured result of the analyze_model tool.
type AnalyzeResponse struct {
	Cached   bool               `json:"cached" jsonschema_description:"Whether the report came from the cache"`
	Report   *interleave.Report `json:"report,omitempty" jsonschema_description:"The full analysis report"`
	Markdown string             `json:"markdown,omitempty" jsonschema_description:"The report rendered as markdown, when requested"`
}

// Server wraps the report manager and exposes it as an MCP Server.
type Server struct {
	reports   ports.ReportService
	opts      []interleave.Option
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. opts apply to concurrent space queries.
func NewServer(reports ports.ReportService, opts ...interleave.Option) *Server {
	s := &Server{
		reports:   reports,
		opts:      opts,
		mcpServer: server.NewMCPServer("interleave-mcp", strings.TrimSpace(interleave.Version)),
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

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_models
	s.mcpServer.AddTool(mcp.NewTool("list_models",
		mcp.WithDescription("List the models available for analysis."),
	), s.handleListModels)

	// TOOL: analyze_model
	analyzeTool := mcp.NewTool("analyze_model",
		mcp.WithDescription("Explore a model's state space and report mutual exclusion segments, invariants and concurrent transitions."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
		mcp.WithBoolean("refresh", mcp.Description("Ignore the cached report")),
		mcp.WithString("format", mcp.Description("'json' (default) or 'markdown'")),
		mcp.WithOutputSchema[AnalyzeResponse](),
	)
	s.mcpServer.AddTool(analyzeTool, mcp.NewStructuredToolHandler(s.handleAnalyze))

	// TOOL: concurrent_space
	spaceTool := mcp.NewTool("concurrent_space",
		mcp.WithDescription("List the local states other processes may occupy while a process sits at a node, computed from the graphs alone."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
		mcp.WithString("process", mcp.Required(), mcp.Description("Process name")),
		mcp.WithString("node", mcp.Required(), mcp.Description("Node mnemonic")),
		mcp.WithOutputSchema[interleave.ConcurrentSpace](),
	)
	s.mcpServer.AddTool(spaceTool, mcp.NewStructuredToolHandler(s.handleConcurrentSpace))

	// TOOL: model_graph
	s.mcpServer.AddTool(mcp.NewTool("model_graph",
		mcp.WithDescription("Render a model as a Mermaid flowchart with its mutual exclusion segments highlighted."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
	), s.handleGraph)
}

func (s *Server) handleListModels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.reports.Models(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (AnalyzeResponse, error) {
	name, _ := args["model"].(string)
	refresh, _ := args["refresh"].(bool)
	format, _ := args["format"].(string)

	report, cached, err := s.reports.Report(ctx, name, refresh)
	if err != nil {
		return AnalyzeResponse{}, fmt.Errorf("analysis failed: %w", err)
	}
	if format == "markdown" {
		return AnalyzeResponse{Cached: cached, Markdown: report.Markdown()}, nil
	}
	return AnalyzeResponse{Cached: cached, Report: report}, nil
}

func (s *Server) handleConcurrentSpace(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (interleave.ConcurrentSpace, error) {
	name, _ := args["model"].(string)
	processName, _ := args["process"].(string)
	nodeName, _ := args["node"].(string)

	model, err := s.reports.Model(ctx, name)
	if err != nil {
		return interleave.ConcurrentSpace{}, fmt.Errorf("load failed: %w", err)
	}
	space, err := interleave.ConcurrentSpaceOf(ctx, model.Set, processName, nodeName, s.opts...)
	if err != nil {
		return interleave.ConcurrentSpace{}, err
	}
	return *space, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("model", "")
	model, err := s.reports.Model(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	report, _, err := s.reports.Report(ctx, name, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(model.Set, graph.OverlayFromReport(report))), nil
}

func (s *Server) registerResources() {
	// EXPOSE: interleave://models
	s.mcpServer.AddResource(mcp.NewResource("interleave://models", "Available Models",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.reports.Models(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "interleave://models",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
