package mcpsrv

import (
	"github.com/afossey/message-schema-plugin/internal/binding"
	"github.com/afossey/message-schema-plugin/internal/check"
	"github.com/afossey/message-schema-plugin/internal/config"
	"github.com/afossey/message-schema-plugin/internal/indexer"
	"github.com/afossey/message-schema-plugin/internal/schema"
	"github.com/afossey/message-schema-plugin/internal/workspace"
)

// Deps contains all dependencies available to custom tools.
// Custom tools see the same index and schema cache as the builtin tools.
type Deps struct {
	Workspace *workspace.Workspace
	Store     *binding.Store
	Indexer   *indexer.Indexer
	Loader    *schema.Loader
	Checker   *check.Checker
	Config    *config.Config
}

func newDeps(ws *workspace.Workspace) *Deps {
	return &Deps{
		Workspace: ws,
		Store:     ws.Store,
		Indexer:   ws.Indexer,
		Loader:    ws.Loader,
		Checker:   ws.Checker,
		Config:    ws.Config,
	}
}
