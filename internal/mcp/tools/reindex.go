package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReindexInput is the input for msgschema_reindex.
type ReindexInput struct {
	Incremental bool `json:"incremental,omitempty" jsonschema:"Only rescan files changed since the last pass instead of rebuilding"`
}

// ReindexOutput is the output for msgschema_reindex.
type ReindexOutput struct {
	Files     int  `json:"files"`
	Bindings  int  `json:"bindings"`
	Rescanned int  `json:"rescanned,omitempty"`
	Removed   int  `json:"removed,omitempty"`
	Ready     bool `json:"ready"`
}

// ToolReindex rebuilds or refreshes the binding index.
func ToolReindex(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReindexInput) (*sdkmcp.CallToolResult, ReindexOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReindexInput) (*sdkmcp.CallToolResult, ReindexOutput, error) {
		var out ReindexOutput
		if input.Incremental {
			res, err := d.Workspace.Indexer.Refresh(ctx)
			if err != nil {
				return nil, ReindexOutput{}, WrapError("refresh index", err)
			}
			out.Rescanned, out.Removed = res.Rescanned, res.Removed
		} else if _, err := d.Workspace.Reindex(ctx); err != nil {
			return nil, ReindexOutput{}, WrapError("rebuild index", err)
		}

		stats := d.Workspace.Indexer.Stats()
		out.Files = stats.Files
		out.Bindings = len(d.Workspace.Store.Bindings(nil))
		out.Ready = stats.Ready
		return nil, out, nil
	}
}
