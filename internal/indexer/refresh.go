package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/afossey/message-schema-plugin/internal/binding"
	"github.com/afossey/message-schema-plugin/internal/cache"
)

// RefreshResult counts the work done by one incremental pass.
type RefreshResult struct {
	Rescanned int `json:"rescanned"`
	Removed   int `json:"removed"`
}

// singleflight group for deduplicating concurrent workspace refreshes.
var refreshGroup singleflight.Group

// Refresh rescans files whose stamp changed since they were last indexed and
// drops files that disappeared. Concurrent refreshes of the same workspace
// share one pass.
func (idx *Indexer) Refresh(ctx context.Context) (RefreshResult, error) {
	v, err, _ := refreshGroup.Do(idx.root, func() (any, error) {
		return idx.doRefresh(ctx)
	})
	if err != nil {
		return RefreshResult{}, err
	}
	return v.(RefreshResult), nil
}

func (idx *Indexer) doRefresh(ctx context.Context) (RefreshResult, error) {
	start := time.Now()
	keys, err := idx.walk(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	seen := make(map[string]bool, len(keys))
	var changed []string
	idx.mu.Lock()
	for _, key := range keys {
		seen[key] = true
		old, ok := idx.stamps[key]
		if !ok || !sameStamp(old, statStamp(idx.abs(key))) {
			changed = append(changed, key)
		}
	}
	idx.mu.Unlock()

	// Files restored from a snapshot carry no stamp until rescanned.
	gone := make(map[string]bool)
	for _, key := range idx.store.Files() {
		if !seen[key] {
			gone[key] = true
		}
	}
	idx.mu.Lock()
	for key := range idx.stamps {
		if !seen[key] {
			gone[key] = true
		}
	}
	idx.mu.Unlock()

	var res RefreshResult
	for key := range gone {
		idx.removeKey(key)
		res.Removed++
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers())
	for _, key := range changed {
		g.Go(func() error {
			if _, err := idx.IndexFile(gctx, key); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Debug("refresh skipped file",
					slog.String("file", key),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, fmt.Errorf("refreshing index: %w", err)
	}
	res.Rescanned = len(changed)

	idx.mu.Lock()
	idx.lastSync = time.Now()
	idx.mu.Unlock()

	if res.Rescanned > 0 || res.Removed > 0 {
		slog.Info("refresh completed",
			slog.Int("rescanned", res.Rescanned),
			slog.Int("removed", res.Removed),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}
	return res, nil
}

func statStamp(path string) cache.Stamp {
	fi, err := os.Stat(path)
	if err != nil {
		return cache.Stamp{}
	}
	return cache.Stamp{ModTime: fi.ModTime(), Size: fi.Size()}
}

func sameStamp(a, b cache.Stamp) bool {
	return a.Size == b.Size && a.ModTime.Equal(b.ModTime)
}

// StartBackgroundRefresh starts a goroutine that periodically refreshes the
// workspace. A zero RefreshInterval disables it.
func (idx *Indexer) StartBackgroundRefresh(ctx context.Context) {
	interval := idx.config.RefreshInterval
	if interval <= 0 {
		slog.Info("background refresh disabled")
		return
	}
	slog.Info("starting background refresh", slog.Duration("interval", interval))

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("stopping background refresh")
				return
			case <-ticker.C:
				if _, err := idx.Refresh(ctx); err != nil && ctx.Err() == nil {
					slog.Warn("background refresh failed", slog.String("error", err.Error()))
				}
			}
		}
	}()
}

// LoadSnapshot restores the store from a snapshot file.
func (idx *Indexer) LoadSnapshot(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return idx.store.Load(f)
}

// SaveSnapshot writes the store to path, replacing it atomically.
func (idx *Indexer) SaveSnapshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".msgschema-index-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := idx.store.Save(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// SnapshotPath returns the configured snapshot location resolved against the
// workspace root, or "" when snapshots are disabled.
func (idx *Indexer) SnapshotPath() string {
	path := idx.config.IndexFile
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(idx.root, path)
}

// Bootstrap brings the index up to date. With an IndexFile configured it
// restores the snapshot and refreshes on top of it; a missing or
// incompatible snapshot falls back to a full rebuild. The result is saved
// back when an IndexFile is configured.
func (idx *Indexer) Bootstrap(ctx context.Context) error {
	path := idx.SnapshotPath()
	if path == "" {
		return idx.Rebuild(ctx)
	}

	if err := idx.LoadSnapshot(path); err == nil {
		if _, err := idx.Refresh(ctx); err != nil {
			return err
		}
	} else {
		level := slog.LevelWarn
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, binding.ErrVersionMismatch) {
			level = slog.LevelInfo
		}
		slog.Log(ctx, level, "rebuilding index",
			slog.String("snapshot", path),
			slog.String("reason", err.Error()),
		)
		if err := idx.Rebuild(ctx); err != nil {
			return err
		}
	}

	if err := idx.SaveSnapshot(path); err != nil {
		slog.Warn("failed to save index snapshot",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
	return nil
}
