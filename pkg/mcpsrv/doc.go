// Package mcpsrv provides an extensible MCP server that checks message field
// paths against the JSON Schemas bound to Go types.
//
// The server indexes //msgschema:file directives under the configured source
// roots and exposes tools to validate, complete, describe and extract field
// paths. Users can extend it with custom tools, prompts and resources using
// functional options.
//
// # Basic Usage
//
// Create a server for the current directory:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type CountInput struct {
//	    ScopeDir string `json:"scope_dir"`
//	}
//
//	type CountOutput struct {
//	    Bindings int `json:"bindings"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithDepsTool(
//	        &mcp.Tool{Name: "count_bindings", Description: "Count schema bindings"},
//	        func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	            return func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	                return nil, CountOutput{Bindings: len(d.Store.Bindings(nil))}, nil
//	            }
//	        },
//	    ),
//	)
//
// # Configuration
//
// Defaults come from MSGSCHEMA_* environment variables and can be overridden:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithWorkspace("/src/shop"),
//	    mcpsrv.WithSourceRoots("services", "libs"),
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/msgschema-mcp.log"),
//	)
package mcpsrv
