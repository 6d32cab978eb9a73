package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "msgschema_validate_path",
		Description: "Check that a JSON Pointer field path designates a string-typed location in the JSON Schema bound to a type via //msgschema:file. Returns {checked, valid, diagnostic: {kind, segment, message}, schema_path}. checked=false means no schema could be resolved and nothing was verified.",
	}, ToolValidatePath(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "msgschema_suggest_paths",
		Description: "Complete the last segment of a field path. Returns the sorted property names available at the parent of the path; empty when the parent does not resolve or is not an object.",
	}, ToolSuggestPaths(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "msgschema_resolve_binding",
		Description: "Show which schema file a type is bound to. A type bound to several different schema files is ambiguous and is not checked; all candidates are listed.",
	}, ToolResolveBinding(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "msgschema_describe_path",
		Description: "Render the JSON Schema of the node a field path leads to in the bound schema. Use an empty path for the whole schema. Reports the rejected segment when the path leaves the schema.",
	}, ToolDescribePath(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "msgschema_extract_value",
		Description: "Evaluate a field path against a sample message document. Optionally checks the same path against the schema bound to class_name.",
	}, ToolExtractValue(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "msgschema_reindex",
		Description: "Rebuild the binding index from the workspace sources, or refresh only changed files with incremental=true.",
	}, ToolReindex(d))
}
