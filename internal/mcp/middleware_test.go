package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLoggingMiddleware(t *testing.T) {
	buf := captureLogs(t)

	ok := LoggingMiddleware()(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		return nil, nil
	})
	_, err := ok(context.Background(), "tools/list", nil)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "method=tools/list")

	failing := LoggingMiddleware()(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		return nil, errors.New("boom")
	})
	_, err = failing(context.Background(), "tools/call", nil)
	assert.EqualError(t, err, "boom")
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestLoggingMiddleware_ToolCall(t *testing.T) {
	buf := captureLogs(t)

	handler := LoggingMiddleware()(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		return nil, nil
	})
	req := &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{
		Name:      "msgschema_validate_path",
		Arguments: json.RawMessage(`{"class_name": "example.com/shop/orders.Order", "path": "/id"}`),
	}}
	_, err := handler(context.Background(), "tools/call", req)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "tool=msgschema_validate_path")
	assert.Contains(t, buf.String(), "class=example.com/shop/orders.Order")

	buf.Reset()
	req = &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{Name: "msgschema_reindex"}}
	_, err = handler(context.Background(), "tools/call", req)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "tool=msgschema_reindex")
	assert.NotContains(t, buf.String(), "class=")
}

func TestLoggingMiddleware_ResourceRead(t *testing.T) {
	buf := captureLogs(t)

	handler := LoggingMiddleware()(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		return nil, nil
	})
	req := &sdkmcp.ReadResourceRequest{Params: &sdkmcp.ReadResourceParams{URI: "msgschema://bindings"}}
	_, err := handler(context.Background(), "resources/read", req)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "uri=msgschema://bindings")
}
