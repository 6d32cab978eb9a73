// Package indexer keeps a binding.Store in sync with the Go sources of a
// workspace.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/afossey/message-schema-plugin/internal/binding"
	"github.com/afossey/message-schema-plugin/internal/cache"
	"github.com/afossey/message-schema-plugin/internal/config"
	"github.com/afossey/message-schema-plugin/internal/scan"
)

// Stats summarizes the index.
type Stats struct {
	Files    int       `json:"files"`
	Classes  int       `json:"classes"`
	Ready    bool      `json:"ready"`
	LastSync time.Time `json:"last_sync"`
}

// Indexer scans workspace files and feeds their bindings to a Store.
// File keys are slash-separated paths relative to the workspace root.
type Indexer struct {
	mu       sync.Mutex
	stamps   map[string]cache.Stamp
	modules  map[string]string // dir -> import path, "" when outside a module
	lastSync time.Time

	root   string
	store  *binding.Store
	config *config.Config

	fileGroup singleflight.Group
}

// New creates an Indexer over cfg.WorkspaceDir.
func New(store *binding.Store, cfg *config.Config) (*Indexer, error) {
	root, err := filepath.Abs(cfg.WorkspaceDir)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace: %w", err)
	}
	return &Indexer{
		stamps:  make(map[string]cache.Stamp),
		modules: make(map[string]string),
		root:    root,
		store:   store,
		config:  cfg,
	}, nil
}

// Root returns the absolute workspace root.
func (idx *Indexer) Root() string { return idx.root }

// Store returns the backing store.
func (idx *Indexer) Store() *binding.Store { return idx.store }

// Key returns the file key for path, which may be absolute or relative to
// the workspace root.
func (idx *Indexer) Key(path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(idx.root, path)
	}
	rel, err := filepath.Rel(idx.root, abs)
	if err != nil {
		return "", fmt.Errorf("relating %s to workspace: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the workspace", path)
	}
	return filepath.ToSlash(rel), nil
}

func (idx *Indexer) abs(key string) string {
	return filepath.Join(idx.root, filepath.FromSlash(key))
}

// Rebuild discards the index and rescans every source file. Queries report
// ErrNotReady until it returns.
func (idx *Indexer) Rebuild(ctx context.Context) error {
	start := time.Now()
	idx.store.BeginRebuild()
	defer idx.store.EndRebuild()

	keys, err := idx.walk(ctx)
	if err != nil {
		return err
	}

	type result struct {
		mapping map[string]string
		stamp   cache.Stamp
		ok      bool
	}
	results := make([]result, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers())
	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			mapping, stamp, err := idx.scanFile(key)
			if err != nil {
				slog.Debug("skipping unscannable file",
					slog.String("file", key),
					slog.String("error", err.Error()),
				)
			}
			results[i] = result{mapping: mapping, stamp: stamp, ok: err == nil}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	// Files that no longer parse keep what they contributed before.
	for i, key := range keys {
		if !results[i].ok {
			results[i].mapping, _ = idx.store.FileMapping(key)
		}
	}

	idx.store.Clear()
	stamps := make(map[string]cache.Stamp, len(keys))
	for i, key := range keys {
		r := results[i]
		if !r.stamp.ModTime.IsZero() {
			stamps[key] = r.stamp
		}
		if len(r.mapping) > 0 {
			idx.store.Update(key, r.mapping)
		}
	}

	idx.mu.Lock()
	idx.stamps = stamps
	idx.lastSync = time.Now()
	idx.mu.Unlock()

	files, classes := idx.store.Stats()
	slog.Info("index rebuilt",
		slog.Int("scanned", len(keys)),
		slog.Int("files", files),
		slog.Int("classes", classes),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

// IndexFile rescans a single file and replaces its contribution. A file
// that no longer exists is removed. Concurrent calls for the same file
// share one scan.
func (idx *Indexer) IndexFile(ctx context.Context, path string) (map[string]string, error) {
	key, err := idx.Key(path)
	if err != nil {
		return nil, err
	}
	v, err, _ := idx.fileGroup.Do(key, func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mapping, stamp, err := idx.scanFile(key)
		if errors.Is(err, fs.ErrNotExist) {
			idx.removeKey(key)
			return map[string]string{}, nil
		}
		if !stamp.ModTime.IsZero() {
			idx.mu.Lock()
			idx.stamps[key] = stamp
			idx.mu.Unlock()
		}
		if err != nil {
			// The previous contribution stays until the file scans again.
			return nil, err
		}
		idx.store.Update(key, mapping)
		return mapping, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]string), nil
}

// RemoveFile drops a file's contribution.
func (idx *Indexer) RemoveFile(path string) error {
	key, err := idx.Key(path)
	if err != nil {
		return err
	}
	idx.removeKey(key)
	return nil
}

func (idx *Indexer) removeKey(key string) {
	idx.store.Remove(key)
	idx.mu.Lock()
	delete(idx.stamps, key)
	idx.mu.Unlock()
}

// Stats reports the current index size and readiness.
func (idx *Indexer) Stats() Stats {
	files, classes := idx.store.Stats()
	idx.mu.Lock()
	last := idx.lastSync
	idx.mu.Unlock()
	return Stats{Files: files, Classes: classes, Ready: idx.store.Ready(), LastSync: last}
}

func (idx *Indexer) workers() int {
	if idx.config.ScanWorkers > 0 {
		return idx.config.ScanWorkers
	}
	return config.DefaultScanWorkersValue
}

// scanFile reads and scans the file behind key. The stamp is set whenever
// the file exists, even if it fails to parse.
func (idx *Indexer) scanFile(key string) (map[string]string, cache.Stamp, error) {
	path := idx.abs(key)
	fi, err := os.Stat(path)
	if err != nil {
		return nil, cache.Stamp{}, err
	}
	stamp := cache.Stamp{ModTime: fi.ModTime(), Size: fi.Size()}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, stamp, err
	}
	decls, err := scan.ScanSource(path, src, idx.importPath(filepath.Dir(path)))
	if err != nil {
		return nil, stamp, err
	}
	return binding.Build(decls), stamp, nil
}

// importPath returns the import path for dir, or "" when dir is outside any
// module, in which case the package name qualifies the classes.
func (idx *Indexer) importPath(dir string) string {
	idx.mu.Lock()
	p, ok := idx.modules[dir]
	idx.mu.Unlock()
	if ok {
		return p
	}
	if mod, err := scan.FindModule(dir); err == nil {
		if ip, err := mod.ImportPath(dir); err == nil {
			p = ip
		}
	}
	idx.mu.Lock()
	idx.modules[dir] = p
	idx.mu.Unlock()
	return p
}

// walk lists the file keys of every indexable Go source, sorted.
func (idx *Indexer) walk(ctx context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(idx.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == idx.root {
				return err
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != idx.root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isSource(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(idx.root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking workspace: %w", err)
	}
	return keys, nil
}

func skipDir(name string) bool {
	switch {
	case name == "vendor", name == "testdata":
		return true
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "_"):
		return true
	}
	return false
}

func isSource(name string) bool {
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}
