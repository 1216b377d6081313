package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the plan watcher
type WatcherConfig struct {
	// Patterns select the plan files, as accepted by Loader.Load
	Patterns []string

	// DebounceDelay is how long to wait for more changes before reloading
	DebounceDelay time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// WatchEvent carries the result of a reload
type WatchEvent struct {
	// Paths are the changed files that triggered the reload
	Paths []string

	// Plan is the reloaded plan (nil when Error is set)
	Plan *Plan

	// Error if resolving, parsing or validating failed
	Error error
}

// Watcher reloads a plan whenever one of its YAML files changes
type Watcher struct {
	config  WatcherConfig
	loader  *Loader
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect changes before reloading
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	events chan WatchEvent
}

// NewWatcher creates a new plan watcher
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.DebounceDelay == 0 {
		config.DebounceDelay = 100 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		loader:  NewLoader(logger),
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
		events:  make(chan WatchEvent, 16),
	}, nil
}

// Events returns the channel of reload events
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start watches the directories holding the plan files. The watch ends when
// ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	files, err := w.loader.ResolveFiles(w.config.Patterns...)
	if err != nil {
		return err
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.logger.Debug("Watching plan directory", "path", dir)
	}

	go w.processEvents(ctx)

	w.logger.Info("Plan watcher started",
		"files", len(files),
		"debounce", w.config.DebounceDelay)

	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

// handleFSEvent records changes to YAML files
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if !isPlanFile(event.Name) || event.Op == fsnotify.Chmod {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Plan change detected",
		"path", event.Name,
		"op", event.Op.String())
}

// flushPending reloads the plan once per batch of changes
func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	plan, err := w.loader.Load(w.config.Patterns...)
	event := WatchEvent{Paths: paths, Plan: plan, Error: err}
	if err != nil {
		w.logger.Warn("Plan reload failed", "error", err)
	}
	w.sendEvent(event)
}

// sendEvent sends an event to the output channel
func (w *Watcher) sendEvent(event WatchEvent) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent plan reload event", "paths", len(event.Paths))
	default:
		w.logger.Warn("Event channel full, dropping plan reload")
	}
}

func isPlanFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
