// Package watch monitors the project tree for Ruby file changes and invokes
// a callback with the changed paths after a debounce window, so bursts of
// editor writes produce one recomputation.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/rbmap/rbmap/internal/config"
)

// Watcher monitors the configured project root.
type Watcher struct {
	fsw      *fsnotify.Watcher
	cfg      *config.Config
	onChange func(paths []string)
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]struct{}
	kick    chan struct{}
}

// New creates a watcher. onChange receives batches of changed file paths.
func New(cfg *config.Config, onChange func(paths []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond

	return &Watcher{
		fsw:      fsw,
		cfg:      cfg,
		onChange: onChange,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]struct{}),
		kick:     make(chan struct{}, 1),
	}, nil
}

// Start adds recursive directory watches under the project root and begins
// processing events.
func (w *Watcher) Start() error {
	if err := w.addWatches(w.cfg.Project.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.cfg.Project.Root, err)
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.flushLoop()
	return nil
}

// Stop cancels processing and waits for all goroutines to exit.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addWatches(root string) error {
	visited := make(map[string]bool)

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		// Symlink cycles would otherwise walk forever.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if visited[realPath] {
			return filepath.SkipDir
		}
		visited[realPath] = true

		if w.ignoredDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return nil
		}
		return nil
	})
}

func (w *Watcher) ignoredDir(path string) bool {
	rel := w.relPath(path)
	for _, pattern := range w.cfg.Exclude {
		dirPattern := strings.TrimSuffix(pattern, "/**")
		if matched, _ := doublestar.Match(dirPattern, rel); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Matches reports whether path falls under the include globs and outside the
// exclude globs.
func (w *Watcher) Matches(path string) bool {
	rel := w.relPath(path)
	for _, pattern := range w.cfg.Exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return false
		}
	}
	for _, pattern := range w.cfg.Include {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func (w *Watcher) relPath(path string) string {
	rel, err := filepath.Rel(w.cfg.Project.Root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.ignoredDir(event.Name) {
				_ = w.fsw.Add(event.Name)
			}
			return
		}
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !w.Matches(event.Name) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = struct{}{}
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *Watcher) flushLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.kick:
		}

		// Debounce window: let the burst settle before flushing.
		if w.debounce > 0 {
			select {
			case <-w.ctx.Done():
				return
			case <-time.After(w.debounce):
			}
		}

		w.mu.Lock()
		if len(w.pending) == 0 {
			w.mu.Unlock()
			continue
		}
		paths := make([]string, 0, len(w.pending))
		for p := range w.pending {
			paths = append(paths, p)
		}
		w.pending = make(map[string]struct{})
		w.mu.Unlock()

		w.onChange(paths)
	}
}
