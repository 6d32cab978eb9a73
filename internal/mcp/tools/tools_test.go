package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/afossey/message-schema-plugin/internal/config"
	"github.com/afossey/message-schema-plugin/internal/workspace"
	"github.com/afossey/message-schema-plugin/pkg/resolve"
)

const workspaceFixture = `
-- go.mod --
module example.com/shop
-- orders/order.go --
package orders

//msgschema:file "order.json"
type Order struct{}
-- legacy/go.mod --
module example.com/shop
-- legacy/orders/order.go --
package orders

//msgschema:file "order-v1.json"
type Order struct{}
-- billing/invoice.go --
package billing

//msgschema:file "invoice.yaml"
type Invoice struct{}

//msgschema:file "missing.json"
type Ghost struct{}
-- schemas/order.json --
{
  "type": "object",
  "properties": {
    "id": {"type": "string"},
    "total": {"type": "number"},
    "customer": {
      "type": "object",
      "properties": {"name": {"type": "string"}, "email": {"type": "string"}}
    }
  }
}
-- schemas/invoice.yaml --
type: object
properties:
  number: {type: string}
  lines:
    patternProperties:
      "^[0-9]+$":
        properties:
          sku: {type: string}
`

func newTestDeps(t *testing.T) *Deps {
	t.Helper()
	dir := t.TempDir()
	for _, f := range txtar.Parse([]byte(workspaceFixture)).Files {
		path := filepath.Join(dir, f.Name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, f.Data, 0644))
	}
	ws, err := workspace.Open(context.Background(), &config.Config{
		WorkspaceDir:   dir,
		SourceRoots:    []string{"schemas"},
		MaxSuggestions: 2,
	})
	require.NoError(t, err)
	return NewDeps(ws)
}

func codeOf(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

func TestToolValidatePath(t *testing.T) {
	d := newTestDeps(t)
	ctx := context.Background()
	validate := ToolValidatePath(d)

	_, out, err := validate(ctx, nil, ValidatePathInput{ClassName: "example.com/shop/billing.Invoice", Path: "/lines/3/sku"})
	require.NoError(t, err)
	assert.True(t, out.Checked)
	assert.True(t, out.Valid)
	assert.Equal(t, "invoice.yaml", out.SchemaPath)

	_, out, err = validate(ctx, nil, ValidatePathInput{ClassName: "example.com/shop/billing.Invoice", Path: "/lines/x"})
	require.NoError(t, err)
	assert.False(t, out.Valid)
	require.NotNil(t, out.Diagnostic)
	assert.Equal(t, resolve.UnknownProperty, out.Diagnostic.Kind)
	assert.Equal(t, "x", out.Diagnostic.Segment)

	_, out, err = validate(ctx, nil, ValidatePathInput{ClassName: "example.com/shop/billing.Ghost", Path: "/anything"})
	require.NoError(t, err)
	assert.False(t, out.Checked, "missing schema file means nothing to check")
	assert.True(t, out.Valid)
	assert.Equal(t, "missing.json", out.SchemaPath)

	_, _, err = validate(ctx, nil, ValidatePathInput{Path: "/id"})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(err))
}

func TestToolValidatePath_Scope(t *testing.T) {
	d := newTestDeps(t)
	validate := ToolValidatePath(d)

	// Two directories bind the same type to different schemas.
	_, out, err := validate(context.Background(), nil, ValidatePathInput{ClassName: "example.com/shop/orders.Order", Path: "/total"})
	require.NoError(t, err)
	assert.False(t, out.Checked)

	_, out, err = validate(context.Background(), nil, ValidatePathInput{ClassName: "example.com/shop/orders.Order", Path: "/total", ScopeDir: "orders"})
	require.NoError(t, err)
	assert.True(t, out.Checked)
	require.NotNil(t, out.Diagnostic)
	assert.Equal(t, resolve.NotString, out.Diagnostic.Kind)

	_, _, err = validate(context.Background(), nil, ValidatePathInput{ClassName: "x.Y", ScopeDir: "../outside"})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(err))
}

func TestToolSuggestPaths(t *testing.T) {
	d := newTestDeps(t)
	suggest := ToolSuggestPaths(d)

	_, out, err := suggest(context.Background(), nil, SuggestPathsInput{ClassName: "example.com/shop/orders.Order", Path: "/customer/", ScopeDir: "orders"})
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "name"}, out.Suggestions)
	assert.False(t, out.Truncated)

	_, out, err = suggest(context.Background(), nil, SuggestPathsInput{ClassName: "example.com/shop/orders.Order", Path: "/", ScopeDir: "orders"})
	require.NoError(t, err)
	assert.Equal(t, []string{"customer", "id"}, out.Suggestions)
	assert.True(t, out.Truncated)

	_, out, err = suggest(context.Background(), nil, SuggestPathsInput{ClassName: "example.com/shop/none.None", Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, out.Suggestions)
}

func TestToolResolveBinding(t *testing.T) {
	d := newTestDeps(t)
	resolveBinding := ToolResolveBinding(d)

	_, out, err := resolveBinding(context.Background(), nil, ResolveBindingInput{ClassName: "example.com/shop/orders.Order"})
	require.NoError(t, err)
	assert.False(t, out.Resolved)
	assert.True(t, out.Ready)
	assert.Equal(t, []string{"order-v1.json", "order.json"}, out.Candidates)
	require.NotNil(t, out.Bindings)
	assert.Equal(t, BindingsURI, out.Bindings.URI)

	_, out, err = resolveBinding(context.Background(), nil, ResolveBindingInput{ClassName: "example.com/shop/orders.Order", ScopeDir: "legacy"})
	require.NoError(t, err)
	assert.True(t, out.Resolved)
	assert.Equal(t, "order-v1.json", out.SchemaPath)
	assert.Nil(t, out.Bindings)

	_, out, err = resolveBinding(context.Background(), nil, ResolveBindingInput{ClassName: "example.com/shop/x.Unknown"})
	require.NoError(t, err)
	assert.False(t, out.Resolved)
	assert.Empty(t, out.Candidates)
	assert.NotEmpty(t, out.Hint)
}

func TestToolResolveBinding_NotReady(t *testing.T) {
	d := newTestDeps(t)
	d.Workspace.Store.BeginRebuild()
	defer d.Workspace.Store.EndRebuild()

	_, out, err := ToolResolveBinding(d)(context.Background(), nil, ResolveBindingInput{ClassName: "example.com/shop/billing.Invoice"})
	require.NoError(t, err)
	assert.False(t, out.Ready)
	assert.False(t, out.Resolved)
}

func TestToolDescribePath(t *testing.T) {
	d := newTestDeps(t)
	describe := ToolDescribePath(d)

	_, out, err := describe(context.Background(), nil, DescribePathInput{ClassName: "example.com/shop/orders.Order", Path: "/customer", ScopeDir: "orders"})
	require.NoError(t, err)
	assert.True(t, out.Found)
	schema, ok := out.Schema.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["properties"], "email")

	_, out, err = describe(context.Background(), nil, DescribePathInput{ClassName: "example.com/shop/orders.Order", Path: "/customer/phone/x", ScopeDir: "orders"})
	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Equal(t, "phone", out.RejectedSegment)
	require.NotNil(t, out.RejectedIndex)
	assert.Equal(t, 1, *out.RejectedIndex)

	_, _, err = describe(context.Background(), nil, DescribePathInput{ClassName: "example.com/shop/billing.Ghost"})
	assert.Equal(t, ErrCodeNotFound, codeOf(err))
}

func TestToolExtractValue(t *testing.T) {
	d := newTestDeps(t)
	extract := ToolExtractValue(d)

	msg := `{"id": "o-1", "total": 3, "customer": {"name": "Ada"}}`
	_, out, err := extract(context.Background(), nil, ExtractValueInput{Path: "/customer/name", MessageJSON: msg})
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Equal(t, "Ada", out.Value)
	assert.True(t, out.IsString)
	assert.False(t, out.Checked)

	_, out, err = extract(context.Background(), nil, ExtractValueInput{
		Path: "/total", MessageJSON: msg, ClassName: "example.com/shop/orders.Order", ScopeDir: "orders",
	})
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.False(t, out.IsString)
	assert.True(t, out.Checked)
	require.NotNil(t, out.Diagnostic)
	assert.Equal(t, resolve.NotString, out.Diagnostic.Kind)

	_, _, err = extract(context.Background(), nil, ExtractValueInput{Path: "/", MessageJSON: "{"})
	assert.Equal(t, ErrCodeInvalidInput, codeOf(err))
}

func TestToolReindex(t *testing.T) {
	d := newTestDeps(t)
	reindex := ToolReindex(d)

	_, out, err := reindex(context.Background(), nil, ReindexInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Files)
	assert.Equal(t, 4, out.Bindings)
	assert.True(t, out.Ready)

	require.NoError(t, os.Remove(filepath.Join(d.Workspace.Indexer.Root(), "legacy", "orders", "order.go")))
	_, out, err = reindex(context.Background(), nil, ReindexInput{Incremental: true})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Removed)
	assert.Equal(t, 2, out.Files)
}

func TestBindingInfos(t *testing.T) {
	d := newTestDeps(t)
	infos := d.BindingInfos(nil)
	require.Len(t, infos, 4)
	for _, b := range infos {
		assert.Equal(t, b.ClassName == "example.com/shop/orders.Order", b.Conflicting, b.ClassName)
	}
}
