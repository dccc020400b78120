package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/miniflow/internal/ctxlog"
	"github.com/specialistvlad/miniflow/internal/fsutil"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads graph definitions from the given files or directories and
	// translates them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// LoadFeed reads input values from a single file.
	LoadFeed(ctx context.Context, path string) (Feed, error)
}

// ExtensionLoader dispatches to a Loader chosen by file extension. A
// directory is searched for files with any registered extension and each
// file is handed to its own loader.
type ExtensionLoader struct {
	loaders  map[string]Loader
	order    []string
	excluded map[string]struct{}
}

// NewExtensionLoader creates an empty ExtensionLoader.
func NewExtensionLoader() *ExtensionLoader {
	return &ExtensionLoader{
		loaders:  make(map[string]Loader),
		excluded: make(map[string]struct{}),
	}
}

// Register maps each extension (with its leading dot) to l.
func (e *ExtensionLoader) Register(l Loader, extensions ...string) {
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if _, exists := e.loaders[ext]; !exists {
			e.order = append(e.order, ext)
		}
		e.loaders[ext] = l
	}
}

// Exclude keeps the given files out of directory scans. Feed files often
// live next to the graph they feed.
func (e *ExtensionLoader) Exclude(paths ...string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("cannot resolve path %s: %w", p, err)
		}
		e.excluded[abs] = struct{}{}
	}
	return nil
}

// Load implements Loader. Files inside a directory are loaded in lexical
// order; excluded files are skipped.
func (e *ExtensionLoader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := &Model{}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read graph path: %w", err)
		}

		files := []string{path}
		if info.IsDir() {
			if len(e.order) == 0 {
				continue
			}
			files, err = fsutil.FindFilesByExtension(path, e.order...)
			if err != nil {
				return nil, fmt.Errorf("cannot read graph path: %w", err)
			}
		}

		for _, file := range files {
			if info.IsDir() && e.isExcluded(file) {
				logger.Debug("Skipping excluded file in graph directory.", "path", file)
				continue
			}
			l, err := e.loaderFor(file)
			if err != nil {
				return nil, err
			}
			m, err := l.Load(ctx, file)
			if err != nil {
				return nil, err
			}
			model.Merge(m)
		}
	}
	return model, nil
}

func (e *ExtensionLoader) isExcluded(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, ok := e.excluded[abs]
	return ok
}

// LoadFeed implements Loader.
func (e *ExtensionLoader) LoadFeed(ctx context.Context, path string) (Feed, error) {
	l, err := e.loaderFor(path)
	if err != nil {
		return nil, err
	}
	return l.LoadFeed(ctx, path)
}

func (e *ExtensionLoader) loaderFor(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := e.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("no loader registered for '%s' files (%s)", ext, path)
	}
	return l, nil
}
