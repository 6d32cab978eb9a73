package tools

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/afossey/message-schema-plugin/pkg/message"
	"github.com/afossey/message-schema-plugin/pkg/pointer"
	"github.com/afossey/message-schema-plugin/pkg/resolve"
)

// ExtractValueInput is the input for msgschema_extract_value.
type ExtractValueInput struct {
	Path        string `json:"path" jsonschema:"JSON Pointer into the message"`
	MessageJSON string `json:"message_json" jsonschema:"required,Message document as JSON text"`
	ClassName   string `json:"class_name,omitempty" jsonschema:"If set, the path is also checked against the schema bound to this type"`
	ScopeDir    string `json:"scope_dir,omitempty" jsonschema:"Only consult bindings declared under this directory"`
}

// ExtractValueOutput is the output for msgschema_extract_value.
type ExtractValueOutput struct {
	Found      bool                `json:"found"`
	Value      any                 `json:"value,omitempty"`
	IsString   bool                `json:"is_string"`
	Checked    bool                `json:"checked"`
	Diagnostic *resolve.Diagnostic `json:"diagnostic,omitempty"`
}

// ToolExtractValue evaluates a field path against a sample message, the
// way Message.Get does at runtime.
func ToolExtractValue(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExtractValueInput) (*sdkmcp.CallToolResult, ExtractValueOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExtractValueInput) (*sdkmcp.CallToolResult, ExtractValueOutput, error) {
		if input.MessageJSON == "" {
			return nil, ExtractValueOutput{}, ErrInvalidInput("message_json is required")
		}
		var doc any
		if err := json.Unmarshal([]byte(input.MessageJSON), &doc); err != nil {
			return nil, ExtractValueOutput{}, ErrInvalidInput(fmt.Sprintf("message_json is not valid JSON: %v", err))
		}

		var out ExtractValueOutput
		out.Value, out.Found = message.Lookup(doc, pointer.Parse(input.Path))
		_, out.IsString = out.Value.(string)

		if input.ClassName != "" {
			scope, err := d.Scope(input.ScopeDir)
			if err != nil {
				return nil, ExtractValueOutput{}, err
			}
			pc := d.check(input.ClassName, input.Path, scope)
			out.Checked = pc.Checked
			out.Diagnostic = pc.Diagnostic
		}
		return nil, out, nil
	}
}
