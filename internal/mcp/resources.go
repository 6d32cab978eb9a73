package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/afossey/message-schema-plugin/internal/binding"
	"github.com/afossey/message-schema-plugin/internal/mcp/tools"
	"github.com/afossey/message-schema-plugin/pkg/types"
)

// bindingsContent is the payload of tools.BindingsURI.
type bindingsContent struct {
	Ready    bool                `json:"ready"`
	Files    int                 `json:"files"`
	Bindings []types.BindingInfo `json:"bindings"`
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         tools.BindingsURI,
		Name:        "Schema Bindings",
		Description: "All //msgschema:file bindings found in the workspace, with conflicting bindings flagged. Conflicting types are not checked.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceBindings)
}

func (s *Server) handleResourceBindings(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	stats := s.deps.Workspace.Indexer.Stats()
	return toResourceResult(req.Params.URI, bindingsContent{
		Ready:    stats.Ready,
		Files:    stats.Files,
		Bindings: s.deps.BindingInfos(binding.AllScope),
	})
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
