// Package mcp exposes the compiler as a Model Context Protocol server, so
// writing tools and agents can compile, validate and inspect a project.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/espalier-dev/espalier"
	"github.com/espalier-dev/espalier/internal/presentation/graph"
	"github.com/espalier-dev/espalier/pkg/domain"
	"github.com/espalier-dev/espalier/pkg/ports"
)

// Pipeline is the slice of the compiler the MCP server drives.
type Pipeline interface {
	Compile(ctx context.Context) (*espalier.Result, error)
	Validate(ctx context.Context) (*espalier.Result, error)
	Graph(ctx context.Context) (*domain.Graph, error)
	Source() string
	Recorder() ports.RunRecorder
}

// RunsResponse wraps the run history for structured tool output.
type RunsResponse struct {
	Runs []ports.RunRecord `json:"runs" jsonschema_description:"Recent compile runs, newest first"`
}

// Server wraps the pipeline and exposes it as an MCP server.
type Server struct {
	pipe      Pipeline
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(pipe Pipeline) *Server {
	s := &Server{
		pipe:      pipe,
		mcpServer: server.NewMCPServer("espalier-mcp", strings.TrimSpace(espalier.Version)),
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
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: compile_project
	compileTool := mcp.NewTool("compile_project",
		mcp.WithDescription("Compile the articy:draft export into the Ren'Py target directory and return the run summary."),
		mcp.WithOutputSchema[espalier.Result](),
	)
	s.mcpServer.AddTool(compileTool, mcp.NewStructuredToolHandler(s.handleCompile))

	// TOOL: validate_project
	validateTool := mcp.NewTool("validate_project",
		mcp.WithDescription("Compile without writing anything and return the findings a real run would log."),
		mcp.WithOutputSchema[espalier.Result](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: run_history
	historyTool := mcp.NewTool("run_history",
		mcp.WithDescription("List recent compile runs, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return (default 10)")),
		mcp.WithOutputSchema[RunsResponse](),
	)
	s.mcpServer.AddTool(historyTool, mcp.NewStructuredToolHandler(s.handleRuns))

	// TOOL: flow_graph
	s.mcpServer.AddTool(mcp.NewTool("flow_graph",
		mcp.WithDescription("Render the narrative flow as a Mermaid flowchart."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		g, err := s.pipe.Graph(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		return mcp.NewToolResultText(graph.Mermaid(g)), nil
	})
}

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (espalier.Result, error) {
	res, err := s.pipe.Compile(ctx)
	if err != nil {
		return espalier.Result{}, fmt.Errorf("compile failed: %w", err)
	}
	return *res, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (espalier.Result, error) {
	res, err := s.pipe.Validate(ctx)
	if err != nil {
		return espalier.Result{}, fmt.Errorf("validate failed: %w", err)
	}
	return *res, nil
}

func (s *Server) handleRuns(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunsResponse, error) {
	limit := 10
	if raw, ok := args["limit"].(float64); ok && raw > 0 {
		limit = int(raw)
	}
	runs, err := s.pipe.Recorder().Recent(ctx, limit)
	if err != nil {
		return RunsResponse{}, fmt.Errorf("run history failed: %w", err)
	}
	return RunsResponse{Runs: runs}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: espalier://graph
	s.mcpServer.AddResource(mcp.NewResource("espalier://graph", "Flow Graph (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		g, err := s.pipe.Graph(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load graph: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "espalier://graph",
				MIMEType: "text/plain",
				Text:     graph.Mermaid(g),
			},
		}, nil
	})

	// EXPOSE: espalier://report
	s.mcpServer.AddResource(mcp.NewResource("espalier://report", "Compile Findings",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		res, err := s.pipe.Validate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to validate: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "espalier://report",
				MIMEType: "text/plain",
				Text:     res.Report,
			},
		}, nil
	})
}
