// Package watch rebuilds a site whenever its sources change.
package watch

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

	"github.com/fsnotify/fsnotify"
)

// BuildFunc rebuilds the whole site.
type BuildFunc func(ctx context.Context) error

// Watcher runs a BuildFunc after a burst of file system events settles.
// Every build is a full rebuild.
type Watcher struct {
	logger   *slog.Logger
	build    BuildFunc
	debounce time.Duration
	watcher  *fsnotify.Watcher

	trees   []string
	files   map[string]struct{}
	ignored []string

	mu sync.Mutex
}

type Option func(*Watcher)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce sets how long the sources must stay quiet before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithIgnore drops events under paths, typically the output directory.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				w.ignored = append(w.ignored, abs)
			}
		}
	}
}

func New(build BuildFunc, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		logger:   slog.Default(),
		build:    build,
		debounce: 300 * time.Millisecond,
		watcher:  fsw,
		files:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// AddTree watches dir and every directory below it. Directories created
// later are picked up as they appear. A missing dir is skipped.
func (w *Watcher) AddTree(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
		w.logger.Debug("not watching missing directory", "dir", abs)
		return nil
	}

	w.trees = append(w.trees, abs)
	return w.addDirs(abs)
}

// AddFile watches a single file through its parent directory, so the file
// may be replaced or created later.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w.files[abs] = struct{}{}
	return nil
}

func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.isIgnored(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// Rebuild runs the build now. Builds never overlap.
func (w *Watcher) Rebuild(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.build(ctx)
}

// Run handles events until ctx is done, then closes the watcher. Build
// failures are logged and do not stop watching.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.logger.Info("watching for changes", "dirs", w.trees, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected", "file", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirs(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.logger.Info("rebuilding site")
			if err := w.Rebuild(ctx); err != nil {
				w.logger.Error("rebuild failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if w.isIgnored(event.Name) {
		return false
	}
	if _, ok := w.files[event.Name]; ok {
		return true
	}
	for _, tree := range w.trees {
		if within(tree, event.Name) {
			return true
		}
	}
	return false
}

func (w *Watcher) isIgnored(path string) bool {
	for _, ignored := range w.ignored {
		if within(ignored, path) {
			return true
		}
	}
	return false
}

func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}
