package mcpsrv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countInput struct{}

type countOutput struct {
	Bindings int `json:"bindings"`
}

func writeWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/app\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event.go"), []byte("package app\n\n//msgschema:file \"event.json\"\ntype Event struct{}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event.json"), []byte(`{"properties": {"id": {"type": "string"}}}`), 0644))
	return dir
}

func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	_, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	session, err := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0.0.1"}, nil).Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func TestNewServer_DepsTool(t *testing.T) {
	dir := writeWorkspace(t)
	s, err := NewServer(
		WithWorkspace(dir),
		WithSourceRoots(),
		WithIndexFile(""),
		WithRefreshInterval(0),
		WithLogLevel("error"),
		WithoutBuiltinTools(),
		WithDepsTool(&mcp.Tool{Name: "count_bindings"}, func(d *Deps) func(context.Context, *mcp.CallToolRequest, countInput) (*mcp.CallToolResult, countOutput, error) {
			return func(ctx context.Context, req *mcp.CallToolRequest, in countInput) (*mcp.CallToolResult, countOutput, error) {
				return nil, countOutput{Bindings: len(d.Store.Bindings(nil))}, nil
			}
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Sync(context.Background()))

	session := connect(t, s)
	list, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, list.Tools, 1)
	assert.Equal(t, "count_bindings", list.Tools[0].Name)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "count_bindings", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"bindings": float64(1)}, res.StructuredContent)
}

func TestNewServer_BuiltinTools(t *testing.T) {
	dir := writeWorkspace(t)
	s, err := NewServer(WithWorkspace(dir), WithSourceRoots(), WithIndexFile(""), WithLogLevel("error"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Sync(context.Background()))

	assert.Equal(t, dir, s.Deps().Config.WorkspaceDir)
	assert.Equal(t, 1, s.Deps().Indexer.Stats().Classes)

	session := connect(t, s)
	list, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, list.Tools, 6)
}
