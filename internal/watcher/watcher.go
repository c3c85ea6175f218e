// Package watcher watches a configuration directory tree and publishes
// debounced change notifications on the event bus.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/digidem/mapeo-config-renderer/internal/event"
)

// DefaultDebounce is the quiet period after the last change before a
// config.updated event is published.
const DefaultDebounce = time.Second

// Config configures a Watcher.
type Config struct {
	Dir string
	// Ignore holds doublestar patterns matched against slash-separated paths
	// relative to Dir. Dotfiles and dot-directories are always ignored.
	Ignore   []string
	Debounce time.Duration
	// MaxRetry bounds how long the watcher tries to re-add Dir after it
	// disappears. Zero retries until Stop.
	MaxRetry time.Duration
}

// Watcher watches Config.Dir recursively.
type Watcher struct {
	cfg Config
	bus *event.Bus
	fsw *fsnotify.Watcher

	ctx      context.Context
	cancel   context.CancelFunc
	restored chan struct{}
	doneCh   chan struct{}

	mu      sync.Mutex
	started bool
	pending map[string]struct{}
}

// New validates the configuration and sets up watches for every directory
// under cfg.Dir.
func New(cfg Config, bus *event.Bus) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	for _, p := range cfg.Ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid ignore pattern %q", p)
		}
	}

	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, err
	}
	cfg.Dir = dir

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to watch %s: not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		cfg:      cfg,
		bus:      bus,
		fsw:      fsw,
		ctx:      ctx,
		cancel:   cancel,
		restored: make(chan struct{}, 1),
		doneCh:   make(chan struct{}),
		pending:  make(map[string]struct{}),
	}
	if err := w.addTree(dir); err != nil {
		cancel()
		fsw.Close()
		return nil, err
	}

	log.Info().Str("dir", dir).Dur("debounce", cfg.Debounce).Msg("config watcher initialized")
	return w, nil
}

// Dir returns the absolute watched directory.
func (w *Watcher) Dir() string {
	return w.cfg.Dir
}

// Start begins watching. It is a no-op when already started.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	timer := time.NewTimer(w.cfg.Debounce)
	timer.Stop()

	for {
		select {
		case <-w.ctx.Done():
			timer.Stop()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.handle(ev) {
				timer.Reset(w.cfg.Debounce)
			}
		case <-w.restored:
			w.mark(".")
			timer.Reset(w.cfg.Debounce)
		case <-timer.C:
			w.flush()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("config watcher error")
		}
	}
}

// handle records ev and reports whether it counts as a change.
func (w *Watcher) handle(ev fsnotify.Event) bool {
	// Permission and timestamp updates leave the content unchanged.
	if ev.Op == fsnotify.Chmod {
		return false
	}
	if ev.Name == w.cfg.Dir {
		if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
			log.Warn().Str("dir", w.cfg.Dir).Msg("config directory removed, waiting for it to return")
			go w.restore()
			w.mark(".")
			return true
		}
		return false
	}

	rel, err := filepath.Rel(w.cfg.Dir, ev.Name)
	if err != nil || w.ignored(rel) {
		return false
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				log.Warn().Err(err).Str("dir", ev.Name).Msg("failed to watch new directory")
			}
		}
	}

	op := opName(ev.Op)
	log.Debug().Str("path", rel).Str("op", op).Msg("config file changed")
	if w.bus != nil {
		if err := w.bus.Publish(event.FileChanged, event.FileChangedData{Path: filepath.ToSlash(rel), Op: op}); err != nil {
			log.Debug().Err(err).Msg("failed to publish file change")
		}
	}
	w.mark(filepath.ToSlash(rel))
	return true
}

func (w *Watcher) mark(rel string) {
	w.mu.Lock()
	w.pending[rel] = struct{}{}
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	slices.Sort(paths)

	data := event.ConfigUpdatedData{
		BatchID: ulid.Make().String(),
		Dir:     w.cfg.Dir,
		Paths:   paths,
	}
	log.Info().Int("changes", len(paths)).Msg("configuration updated")
	if w.bus == nil {
		return
	}
	if err := w.bus.Publish(event.ConfigUpdated, data); err != nil {
		log.Error().Err(err).Msg("failed to publish configuration update")
	}
}

// restore re-adds the root directory once it exists again.
func (w *Watcher) restore() {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = w.cfg.MaxRetry
	b.Reset()

	err := backoff.Retry(func() error {
		info, err := os.Stat(w.cfg.Dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return backoff.Permanent(fmt.Errorf("%s is no longer a directory", w.cfg.Dir))
		}
		return w.addTree(w.cfg.Dir)
	}, backoff.WithContext(b, w.ctx))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Str("dir", w.cfg.Dir).Msg("gave up watching config directory")
		}
		return
	}

	log.Info().Str("dir", w.cfg.Dir).Msg("config directory is back, watching again")
	select {
	case w.restored <- struct{}{}:
	default:
	}
}

// addTree adds a watch for root and every non-ignored directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.cfg.Dir {
			rel, err := filepath.Rel(w.cfg.Dir, path)
			if err == nil && w.ignored(rel) {
				return filepath.SkipDir
			}
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// ignored reports whether rel (relative to Dir) is a dotfile, lies in a
// dot-directory or matches an ignore pattern.
func (w *Watcher) ignored(rel string) bool {
	return Ignored(rel, w.cfg.Ignore)
}

// Ignored is the matching rule the watcher applies to relative paths.
func Ignored(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return "chmod"
	}
}

// Stop stops the watcher and releases its watches. Pending changes that
// have not reached the end of their quiet period are discarded.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	w.cancel()
	if started {
		<-w.doneCh
	}
	return w.fsw.Close()
}
