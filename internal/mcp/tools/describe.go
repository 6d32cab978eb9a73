package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/afossey/message-schema-plugin/pkg/jsonschema"
	"github.com/afossey/message-schema-plugin/pkg/types"
)

// DescribePathInput is the input for msgschema_describe_path.
type DescribePathInput struct {
	ClassName string `json:"class_name" jsonschema:"required,Qualified type name"`
	Path      string `json:"path" jsonschema:"JSON Pointer field path; empty describes the whole schema"`
	Depth     int    `json:"depth,omitempty" jsonschema:"Levels of nested properties to expand (default: 3)"`
	ScopeDir  string `json:"scope_dir,omitempty" jsonschema:"Only consult bindings declared under this directory"`
}

// DescribePathOutput is the output for msgschema_describe_path.
type DescribePathOutput struct {
	SchemaPath      string `json:"schema_path"`
	Found           bool   `json:"found"`
	RejectedSegment string `json:"rejected_segment,omitempty"`
	RejectedIndex   *int   `json:"rejected_index,omitempty"`
	Schema          any    `json:"schema,omitempty"` // JSON Schema of the reached node
}

// ToolDescribePath renders the part of the bound schema a path leads to.
func ToolDescribePath(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input DescribePathInput) (*sdkmcp.CallToolResult, DescribePathOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input DescribePathInput) (*sdkmcp.CallToolResult, DescribePathOutput, error) {
		if input.ClassName == "" {
			return nil, DescribePathOutput{}, ErrInvalidInput("class_name is required")
		}
		scope, err := d.Scope(input.ScopeDir)
		if err != nil {
			return nil, DescribePathOutput{}, err
		}

		desc, ok := d.Workspace.Checker.Describe(input.ClassName, input.Path, scope)
		if !ok {
			return nil, DescribePathOutput{}, ErrNotFound("schema for type", input.ClassName)
		}

		out := DescribePathOutput{SchemaPath: desc.SchemaPath}
		if desc.Walk.Rejected {
			out.RejectedSegment = desc.Walk.Segment
			index := desc.Walk.Index
			out.RejectedIndex = &index
			return nil, out, nil
		}

		depth := input.Depth
		if depth <= 0 {
			depth = jsonschema.DefaultDepth
		}
		schema, err := types.ToAny(jsonschema.Describe(desc.Walk.Node, depth))
		if err != nil {
			return nil, DescribePathOutput{}, WrapError("render schema", err)
		}
		out.Found = true
		out.Schema = schema
		return nil, out, nil
	}
}
