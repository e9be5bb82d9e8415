// Package assets maintains the catalog of placeable mesh assets discovered
// in the configured asset directories, optionally kept fresh by a filesystem
// watcher.
package assets

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
	"github.com/open-rmf/rmf-workcell/internal/wformat"
)

// meshExtensions are the file types the catalog recognizes as mesh assets.
var meshExtensions = map[string]bool{
	".stl":  true,
	".dae":  true,
	".obj":  true,
	".glb":  true,
	".gltf": true,
}

// Catalog maps asset names to their sources. Unlike the rest of the editor
// it is touched from the watcher goroutine, so access is mutex-guarded.
type Catalog struct {
	mu      sync.RWMutex
	dirs    []string
	entries map[string]wformat.AssetSource
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewCatalog creates a catalog over the given directories without scanning.
func NewCatalog(dirs ...string) *Catalog {
	return &Catalog{
		dirs:    dirs,
		entries: make(map[string]wformat.AssetSource),
	}
}

// Scan rebuilds the catalog from the configured directories. Directories
// that do not exist are skipped silently so a fresh project needs no setup.
func (c *Catalog) Scan(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	found := make(map[string]wformat.AssetSource)
	for _, dir := range c.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !meshExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			found[name] = wformat.AssetSource{Local: path}
			return nil
		})
		if err != nil {
			if _, isPathErr := err.(*fs.PathError); isPathErr {
				logger.Debug("Asset directory not present, skipping.", "dir", dir)
				continue
			}
			return fmt.Errorf("failed to scan asset directory %s: %w", dir, err)
		}
	}

	c.mu.Lock()
	c.entries = found
	c.mu.Unlock()
	logger.Debug("Asset catalog scanned.", "count", len(found))
	return nil
}

// Lookup returns the source registered under name.
func (c *Catalog) Lookup(name string) (wformat.AssetSource, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src, ok := c.entries[name]
	return src, ok
}

// Names returns the sorted list of known asset names.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for n := range c.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Watch starts a filesystem watcher that rescans the catalog whenever an
// asset is created, removed or renamed. Stop with Close.
func (c *Catalog) Watch(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create asset watcher: %w", err)
	}
	watched := 0
	for _, dir := range c.dirs {
		if err := watcher.Add(dir); err != nil {
			logger.Debug("Not watching asset directory.", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		watcher.Close()
		logger.Debug("No asset directories to watch.")
		return nil
	}

	c.watcher = watcher
	c.done = make(chan struct{})
	go c.watchLoop(ctx)
	return nil
}

func (c *Catalog) watchLoop(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Asset directory changed, rescanning.", "event", event.String())
			if err := c.Scan(ctx); err != nil {
				logger.Error("Asset rescan failed.", "error", err)
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("Asset watcher error.", "error", err)
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the watcher if one is running.
func (c *Catalog) Close() {
	if c.watcher != nil {
		close(c.done)
		c.watcher.Close()
		c.watcher = nil
	}
}
