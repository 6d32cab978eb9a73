package mcpsrv

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/afossey/message-schema-plugin/internal/config"
	"github.com/afossey/message-schema-plugin/internal/logging"
	"github.com/afossey/message-schema-plugin/internal/mcp"
	"github.com/afossey/message-schema-plugin/internal/mcp/tools"
	"github.com/afossey/message-schema-plugin/internal/workspace"
)

// Server is the message schema MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	workspace  *workspace.Workspace
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin msgschema tools.
//
// The workspace is not indexed until Run or Sync is called.
func NewServer(opts ...Option) (*Server, error) {
	cfg := &serverConfig{
		config: config.Load(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logCfg := logging.FromConfig(cfg.config)
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	ws, err := workspace.New(cfg.config)
	if err != nil {
		logCleanup()
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	deps := newDeps(ws)

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(tools.NewDeps(ws), internalOpts...)
	if err != nil {
		logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		workspace:  ws,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Sync indexes the workspace, restoring the snapshot when one is configured.
func (s *Server) Sync(ctx context.Context) error {
	return s.workspace.Sync(ctx)
}

// Run indexes the workspace, starts background refresh and serves MCP over
// stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Sync(ctx); err != nil {
		return err
	}
	stats := s.workspace.Indexer.Stats()
	slog.Info("workspace indexed",
		slog.String("root", s.workspace.Indexer.Root()),
		slog.Int("files", stats.Files),
		slog.Int("bindings", stats.Classes),
	)
	s.workspace.Indexer.StartBackgroundRefresh(ctx)
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
