package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afossey/message-schema-plugin/internal/config"
	"github.com/afossey/message-schema-plugin/internal/mcp/tools"
	"github.com/afossey/message-schema-plugin/internal/workspace"
)

func newTestSession(t *testing.T, opts ...ServerOption) *sdkmcp.ClientSession {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"go.mod":          "module example.com/app\n",
		"user/user.go":    "package user\n\n//msgschema:file \"user.json\"\ntype User struct{}\n",
		"user/user.json":  `{"properties": {"email": {"type": "string"}, "age": {"type": "integer"}}}`,
		"user/admin.go":   "package user\n\n//msgschema:file \"admin.json\"\ntype Admin struct{}\n",
		"user/admin.json": `{"properties": {"role": {"type": "string"}}}`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	ws, err := workspace.Open(context.Background(), &config.Config{
		WorkspaceDir: dir,
		SourceRoots:  []string{filepath.Join(dir, "user")},
	})
	require.NoError(t, err)

	srv, err := NewServer(tools.NewDeps(ws), append([]ServerOption{WithBuiltinTools()}, opts...)...)
	require.NoError(t, err)

	ctx := context.Background()
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	_, err = srv.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
}

func TestServer_ListTools(t *testing.T) {
	session := newTestSession(t)
	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"msgschema_validate_path",
		"msgschema_suggest_paths",
		"msgschema_resolve_binding",
		"msgschema_describe_path",
		"msgschema_extract_value",
		"msgschema_reindex",
	}, names)
}

func TestServer_CallValidatePath(t *testing.T) {
	session := newTestSession(t)
	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "msgschema_validate_path",
		Arguments: map[string]any{"class_name": "example.com/app/user.User", "path": "/age"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out tools.ValidatePathOutput
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.Checked)
	assert.False(t, out.Valid)
	require.NotNil(t, out.Diagnostic)
	assert.Equal(t, "property is not a string", out.Diagnostic.Message)
}

func TestServer_ReadBindingsResource(t *testing.T) {
	session := newTestSession(t)
	res, err := session.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: tools.BindingsURI})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	var content bindingsContent
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &content))
	assert.True(t, content.Ready)
	assert.Equal(t, 2, content.Files)
	require.Len(t, content.Bindings, 2)
	assert.Equal(t, "example.com/app/user.Admin", content.Bindings[0].ClassName)
}

func TestServer_CustomRegistration(t *testing.T) {
	type echoIn struct {
		Text string `json:"text"`
	}
	type echoOut struct {
		Text string `json:"text"`
	}
	session := newTestSession(t, WithCustomRegistration(func(srv *sdkmcp.Server) {
		tools.AddTool(srv, &sdkmcp.Tool{Name: "echo"}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in echoIn) (*sdkmcp.CallToolResult, echoOut, error) {
			return nil, echoOut(in), nil
		})
	}))

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "echo", Arguments: map[string]any{"text": "hi"}})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}
