package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/afossey/message-schema-plugin/internal/binding"
	"github.com/afossey/message-schema-plugin/pkg/types"
)

// ValidatePathInput is the input for msgschema_validate_path.
type ValidatePathInput struct {
	ClassName string `json:"class_name" jsonschema:"required,Qualified type name, e.g. example.com/shop/orders.Order"`
	Path      string `json:"path" jsonschema:"JSON Pointer field path, e.g. /order/id"`
	ScopeDir  string `json:"scope_dir,omitempty" jsonschema:"Only consult bindings declared under this directory (default: whole workspace)"`
}

// ValidatePathOutput is the output for msgschema_validate_path.
type ValidatePathOutput = types.PathCheck

// ToolValidatePath checks that a field path designates a string in the
// schema bound to a type.
func ToolValidatePath(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidatePathInput) (*sdkmcp.CallToolResult, ValidatePathOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidatePathInput) (*sdkmcp.CallToolResult, ValidatePathOutput, error) {
		if input.ClassName == "" {
			return nil, ValidatePathOutput{}, ErrInvalidInput("class_name is required")
		}
		scope, err := d.Scope(input.ScopeDir)
		if err != nil {
			return nil, ValidatePathOutput{}, err
		}
		return nil, d.check(input.ClassName, input.Path, scope), nil
	}
}

// SuggestPathsInput is the input for msgschema_suggest_paths.
type SuggestPathsInput struct {
	ClassName string `json:"class_name" jsonschema:"required,Qualified type name"`
	Path      string `json:"path" jsonschema:"Field path typed so far; completion is offered for its last segment"`
	ScopeDir  string `json:"scope_dir,omitempty" jsonschema:"Only consult bindings declared under this directory"`
}

// SuggestPathsOutput is the output for msgschema_suggest_paths.
type SuggestPathsOutput struct {
	Suggestions []string `json:"suggestions,omitzero"`
	Truncated   bool     `json:"truncated,omitempty"`
}

// ToolSuggestPaths lists the property names that may follow the parent of
// the given path.
func ToolSuggestPaths(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SuggestPathsInput) (*sdkmcp.CallToolResult, SuggestPathsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SuggestPathsInput) (*sdkmcp.CallToolResult, SuggestPathsOutput, error) {
		if input.ClassName == "" {
			return nil, SuggestPathsOutput{}, ErrInvalidInput("class_name is required")
		}
		scope, err := d.Scope(input.ScopeDir)
		if err != nil {
			return nil, SuggestPathsOutput{}, err
		}

		out := SuggestPathsOutput{Suggestions: d.Workspace.Checker.Suggest(input.ClassName, input.Path, scope)}
		if limit := d.maxSuggestions(); len(out.Suggestions) > limit {
			out.Suggestions = out.Suggestions[:limit]
			out.Truncated = true
		}
		return nil, out, nil
	}
}

// check builds the PathCheck of one literal.
func (d *Deps) check(className, path string, scope binding.Scope) types.PathCheck {
	return d.Workspace.CheckPath(className, path, scope)
}
