// Package workspace wires the binding index, the schema loader and the
// checker for one workspace.
package workspace

import (
	"context"
	"fmt"

	"github.com/afossey/message-schema-plugin/internal/binding"
	"github.com/afossey/message-schema-plugin/internal/cache"
	"github.com/afossey/message-schema-plugin/internal/check"
	"github.com/afossey/message-schema-plugin/internal/config"
	"github.com/afossey/message-schema-plugin/internal/indexer"
	"github.com/afossey/message-schema-plugin/internal/schema"
	"github.com/afossey/message-schema-plugin/pkg/pointer"
	"github.com/afossey/message-schema-plugin/pkg/resolve"
	"github.com/afossey/message-schema-plugin/pkg/types"
)

// Workspace holds the shared infrastructure of a checked workspace.
type Workspace struct {
	Config  *config.Config
	Store   *binding.Store
	Indexer *indexer.Indexer
	Cache   *cache.SchemaCache
	Loader  *schema.Loader
	Checker *check.Checker
}

// New builds an unindexed workspace for cfg. Call Sync before querying.
func New(cfg *config.Config) (*Workspace, error) {
	store := binding.NewStore()
	idx, err := indexer.New(store, cfg)
	if err != nil {
		return nil, err
	}
	maxItems := cfg.SchemaCacheMax
	if maxItems <= 0 {
		maxItems = config.DefaultSchemaCacheMaxItems
	}
	schemaCache, err := cache.NewSchemaCache(maxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema cache: %w", err)
	}
	loader := schema.NewLoader(cfg.ResolveRoots(), schemaCache)

	return &Workspace{
		Config:  cfg,
		Store:   store,
		Indexer: idx,
		Cache:   schemaCache,
		Loader:  loader,
		Checker: check.New(store, loader),
	}, nil
}

// Open builds the workspace and brings its index up to date.
func Open(ctx context.Context, cfg *config.Config) (*Workspace, error) {
	ws, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := ws.Sync(ctx); err != nil {
		return nil, err
	}
	return ws, nil
}

// Sync indexes the workspace, from the snapshot when one is configured.
func (w *Workspace) Sync(ctx context.Context) error {
	if err := w.Indexer.Bootstrap(ctx); err != nil {
		return fmt.Errorf("indexing workspace: %w", err)
	}
	return nil
}

// Reindex discards cached schemas and rebuilds the binding index.
func (w *Workspace) Reindex(ctx context.Context) (indexer.Stats, error) {
	w.Cache.Purge()
	if err := w.Indexer.Rebuild(ctx); err != nil {
		return indexer.Stats{}, err
	}
	if path := w.Indexer.SnapshotPath(); path != "" {
		if err := w.Indexer.SaveSnapshot(path); err != nil {
			return w.Indexer.Stats(), fmt.Errorf("saving index snapshot: %w", err)
		}
	}
	return w.Indexer.Stats(), nil
}

// CheckPath validates a field path against the schema bound to className.
// A type without a usable binding yields an unchecked, valid result.
func (w *Workspace) CheckPath(className, path string, scope binding.Scope) types.PathCheck {
	pc := types.PathCheck{ClassName: className, Path: path, Valid: true}
	root, schemaPath, ok := w.Checker.Schema(className, scope)
	pc.SchemaPath = schemaPath
	if !ok {
		return pc
	}
	pc.Checked = true
	if diag := resolve.Validate(root, pointer.Parse(path)); diag != nil {
		pc.Valid = false
		pc.Diagnostic = diag
	}
	return pc
}

// Bindings lists every binding in scope with conflicts flagged.
func (w *Workspace) Bindings(scope binding.Scope) []types.BindingInfo {
	bindings := w.Store.Bindings(scope)
	infos := make([]types.BindingInfo, len(bindings))
	for i, b := range bindings {
		infos[i] = types.BindingInfo{ClassName: b.ClassName, SchemaPath: b.SchemaPath}
	}
	return types.MarkConflicts(infos)
}
