// Package watcher turns raw filesystem notifications into debounced,
// filtered change batches for the document pipeline.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"lsp-core/src/config"
	"lsp-core/src/internal/common"
)

// Event operations.
const (
	OpWrite  = "write"
	OpCreate = "create"
	OpRemove = "remove"
	OpRename = "rename"
)

// Event is one observed file change.
type Event struct {
	Path      string
	Operation string
	Timestamp time.Time
}

// Watcher watches directory trees and delivers change batches after a
// quiet period, so a burst of writes to one file becomes a single event.
type Watcher struct {
	watcher     *fsnotify.Watcher
	extensions  []string
	excludeDirs []string
	onChange    func([]Event)
	debounce    time.Duration

	// Gitignore filtering, one matcher per watched root
	respectIgnore bool
	rootsMu       sync.RWMutex
	roots         []ignoreRoot

	// Debouncing
	pending       map[string]*Event
	eventMu       sync.Mutex
	debounceTimer *time.Timer

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a watcher configured by cfg. A nil cfg falls back to the
// default watcher configuration. Batches are delivered to onChange on a
// separate goroutine.
func New(cfg *config.WatcherConfig, onChange func([]Event)) (*Watcher, error) {
	if cfg == nil {
		cfg = config.GetDefaultConfig().Watcher
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		watcher:       fsw,
		extensions:    append([]string(nil), cfg.Extensions...),
		excludeDirs:   append([]string(nil), cfg.ExcludeDirs...),
		onChange:      onChange,
		debounce:      time.Duration(cfg.DebounceMS) * time.Millisecond,
		respectIgnore: cfg.RespectGitignore,
		pending:       make(map[string]*Event),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
	return w, nil
}

// AddPath adds a file or directory tree to the watch set.
func (w *Watcher) AddPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if err := w.watcher.Add(absPath); err != nil {
		return err
	}
	common.PipelineLogger.Debug("watching %s", absPath)

	if w.respectIgnore {
		if matcher := loadGitignore(absPath); matcher != nil {
			w.rootsMu.Lock()
			w.roots = append(w.roots, ignoreRoot{path: absPath, matcher: matcher})
			w.rootsMu.Unlock()
		}
	}

	if err := w.addSubdirectories(absPath); err != nil {
		common.PipelineLogger.Warn("failed to add subdirectories for %s: %v", absPath, err)
	}
	return nil
}

// addSubdirectories recursively adds subdirectories to the watch set,
// skipping excluded and hidden directories.
func (w *Watcher) addSubdirectories(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		base := filepath.Base(path)
		if path != root && (w.isExcludedDir(base) || strings.HasPrefix(base, ".")) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path != root && info.IsDir() && w.ignored(path, true) {
			return filepath.SkipDir
		}

		if info.IsDir() && path != root {
			if err := w.watcher.Add(path); err != nil {
				common.PipelineLogger.Warn("failed to watch directory %s: %v", path, err)
			}
		}
		return nil
	})
}

func (w *Watcher) isExcludedDir(name string) bool {
	for _, dir := range w.excludeDirs {
		if name == dir {
			return true
		}
	}
	return false
}

// Start begins watching for file changes.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// watchLoop is the main event processing loop.
func (w *Watcher) watchLoop() {
	defer close(w.done)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.shouldProcess(event.Name) {
				continue
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			common.PipelineLogger.Error("watcher error: %v", err)
		}
	}
}

// shouldProcess decides whether an event path is interesting. New
// directories are folded into the watch set instead.
func (w *Watcher) shouldProcess(path string) bool {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		base := filepath.Base(path)
		if w.isExcludedDir(base) || strings.HasPrefix(base, ".") || w.ignored(path, true) {
			return false
		}
		if err := w.watcher.Add(path); err != nil {
			common.PipelineLogger.Warn("failed to watch new directory %s: %v", path, err)
		}
		if err := w.addSubdirectories(path); err != nil {
			common.PipelineLogger.Warn("failed to add new directory %s: %v", path, err)
		}
		return false
	}

	ext := filepath.Ext(path)
	for _, validExt := range w.extensions {
		if ext == validExt {
			return !w.ignored(path, false)
		}
	}
	return false
}

// handleEvent folds a filesystem event into the pending batch and restarts
// the quiet-period timer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	w.eventMu.Lock()
	defer w.eventMu.Unlock()

	var operation string
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		operation = OpWrite
	case event.Op&fsnotify.Create == fsnotify.Create:
		operation = OpCreate
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		operation = OpRemove
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		operation = OpRename
	default:
		return // Ignore other operations
	}

	w.pending[event.Name] = &Event{
		Path:      event.Name,
		Operation: operation,
		Timestamp: time.Now(),
	}

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.flushEvents)
}

// flushEvents delivers the pending batch to the callback.
func (w *Watcher) flushEvents() {
	w.eventMu.Lock()
	defer w.eventMu.Unlock()

	if len(w.pending) == 0 {
		return
	}

	events := make([]Event, 0, len(w.pending))
	for _, event := range w.pending {
		events = append(events, *event)
	}
	w.pending = make(map[string]*Event)

	if w.onChange != nil {
		common.PipelineLogger.Debug("flushing %d file change events", len(events))
		go w.onChange(events)
	}
}

// Stop stops the watcher and flushes any remaining events.
func (w *Watcher) Stop() error {
	w.cancel()

	w.flushEvents()

	err := w.watcher.Close()

	<-w.done
	return err
}

// SetDebounceDelay overrides the quiet period.
func (w *Watcher) SetDebounceDelay(delay time.Duration) {
	w.eventMu.Lock()
	defer w.eventMu.Unlock()
	w.debounce = delay
}
