package tools

import (
	"context"
	"errors"
	"sort"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/afossey/message-schema-plugin/internal/binding"
	"github.com/afossey/message-schema-plugin/pkg/types"
)

// ResolveBindingInput is the input for msgschema_resolve_binding.
type ResolveBindingInput struct {
	ClassName string `json:"class_name" jsonschema:"required,Qualified type name"`
	ScopeDir  string `json:"scope_dir,omitempty" jsonschema:"Only consult bindings declared under this directory"`
}

// ResolveBindingOutput is the output for msgschema_resolve_binding.
type ResolveBindingOutput struct {
	Resolved   bool     `json:"resolved"`
	SchemaPath string   `json:"schema_path,omitempty"`
	Candidates []string `json:"candidates,omitzero"` // distinct schema paths declared for the type
	Ready      bool     `json:"ready"`
	Hint       string   `json:"hint,omitempty"`

	// Set when the type is not resolved, pointing at the full binding list.
	Bindings *types.ResourceRef `json:"bindings,omitempty"`
}

// ToolResolveBinding reports the schema bound to a type and, when the
// binding is ambiguous, every candidate.
func ToolResolveBinding(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ResolveBindingInput) (*sdkmcp.CallToolResult, ResolveBindingOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ResolveBindingInput) (*sdkmcp.CallToolResult, ResolveBindingOutput, error) {
		if input.ClassName == "" {
			return nil, ResolveBindingOutput{}, ErrInvalidInput("class_name is required")
		}
		scope, err := d.Scope(input.ScopeDir)
		if err != nil {
			return nil, ResolveBindingOutput{}, err
		}

		values, err := d.Workspace.Store.ValuesFor(input.ClassName, scope)
		if errors.Is(err, binding.ErrNotReady) {
			return nil, ResolveBindingOutput{Candidates: []string{}, Hint: "index rebuild in progress, retry shortly"}, nil
		}
		if err != nil {
			return nil, ResolveBindingOutput{}, WrapError("resolve binding", err)
		}

		out := ResolveBindingOutput{Candidates: distinct(values), Ready: true}
		switch len(out.Candidates) {
		case 0:
			out.Hint = "no //msgschema:file directive found for this type"
		case 1:
			out.Resolved = true
			out.SchemaPath = out.Candidates[0]
		default:
			out.Hint = "conflicting directives; the type is left unchecked"
		}
		if !out.Resolved {
			out.Bindings = &types.ResourceRef{URI: BindingsURI, MIME: MimeJSON, Hint: "every binding in the workspace"}
		}
		return nil, out, nil
	}
}

func distinct(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// BindingInfos lists every binding in scope with conflicts flagged.
func (d *Deps) BindingInfos(scope binding.Scope) []types.BindingInfo {
	return d.Workspace.Bindings(scope)
}
