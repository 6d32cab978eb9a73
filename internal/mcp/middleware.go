package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware returns middleware that logs all incoming method calls.
// Tool calls are tagged with the tool and the checked type, resource reads
// with the URI.
func LoggingMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := append([]slog.Attr{slog.String("method", method)}, requestAttrs(req)...)
			attrs = append(attrs, slog.Int64("duration_ms", time.Since(start).Milliseconds()))

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				slog.LogAttrs(ctx, slog.LevelError, "method call failed", attrs...)
			} else {
				slog.LogAttrs(ctx, slog.LevelInfo, "method call completed", attrs...)
			}

			return result, err
		}
	}
}

// requestAttrs describes what a request is about.
func requestAttrs(req sdkmcp.Request) []slog.Attr {
	switch r := req.(type) {
	case *sdkmcp.CallToolRequest:
		if r.Params == nil {
			return nil
		}
		attrs := []slog.Attr{slog.String("tool", r.Params.Name)}
		var args struct {
			ClassName string `json:"class_name"`
		}
		if len(r.Params.Arguments) > 0 && json.Unmarshal(r.Params.Arguments, &args) == nil && args.ClassName != "" {
			attrs = append(attrs, slog.String("class", args.ClassName))
		}
		return attrs
	case *sdkmcp.ReadResourceRequest:
		if r.Params == nil {
			return nil
		}
		return []slog.Attr{slog.String("uri", r.Params.URI)}
	}
	return nil
}
