package tools

import (
	"path/filepath"

	"github.com/afossey/message-schema-plugin/internal/binding"
	"github.com/afossey/message-schema-plugin/internal/config"
	"github.com/afossey/message-schema-plugin/internal/workspace"
)

// MimeJSON is the MIME type of tool and resource payloads.
const MimeJSON = "application/json"

// BindingsURI is the resource listing every type-to-schema binding.
const BindingsURI = "msgschema://bindings"

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Workspace *workspace.Workspace
	Config    *config.Config
}

// NewDeps builds tool dependencies over ws.
func NewDeps(ws *workspace.Workspace) *Deps {
	return &Deps{Workspace: ws, Config: ws.Config}
}

// Scope maps an optional scope directory, absolute or relative to the
// workspace root, to a binding scope.
func (d *Deps) Scope(scopeDir string) (binding.Scope, error) {
	if scopeDir == "" || scopeDir == "." {
		return binding.AllScope, nil
	}
	key, err := d.Workspace.Indexer.Key(scopeDir)
	if err != nil {
		return nil, ErrInvalidInput(err.Error())
	}
	return binding.DirScope(filepath.FromSlash(key)), nil
}

func (d *Deps) maxSuggestions() int {
	if d.Config != nil && d.Config.MaxSuggestions > 0 {
		return d.Config.MaxSuggestions
	}
	return config.DefaultMaxSuggestionsValue
}
