package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/afossey/message-schema-plugin/pkg/mcpsrv"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration is loaded from environment variables:
	// - MSGSCHEMA_WORKSPACE: workspace directory (default: .)
	// - MSGSCHEMA_SOURCE_ROOTS: comma-separated schema roots
	// - MSGSCHEMA_INDEX_FILE: binding snapshot (default: in memory only)
	// - LOG_LEVEL, LOG_FILE: logging (default: info on stderr)
	// - etc. (see internal/config for all options)
	server, err := mcpsrv.NewServer()
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	defer server.Close()

	slog.Info("starting msgschema MCP server on stdio")
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
