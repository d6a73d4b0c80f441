package config

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/logger"
)

// ReloadCallback receives the configuration after a change
type ReloadCallback func(*Config) error

// Watcher reloads a configuration file when it changes
type Watcher struct {
	path     string
	load     func() (*Config, error)
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *zap.SugaredLogger

	mu        sync.Mutex
	callbacks []ReloadCallback
	timer     *time.Timer
}

// NewWatcher watches the file at path, reloading it with load. The parent
// directory is watched so editors that replace the file are seen.
func NewWatcher(path string, load func() (*Config, error)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", path)
	}
	return &Watcher{
		path:     filepath.Clean(path),
		load:     load,
		watcher:  w,
		debounce: 200 * time.Millisecond,
		log:      logger.ComponentLogger("config"),
	}, nil
}

// OnReload registers a callback to be called after each reload
func (w *Watcher) OnReload(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Run watches until ctx is done, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || isBackupFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debugw("config changed", logger.FieldFile, event.Name, "op", event.Op.String())
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("config watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	c, err := w.load()
	if err != nil {
		w.log.Errorw("config reload failed", logger.FieldFile, w.path, logger.FieldError, err)
		return
	}
	w.log.Infow("config reloaded", logger.FieldFile, w.path)

	w.mu.Lock()
	callbacks := append([]ReloadCallback(nil), w.callbacks...)
	w.mu.Unlock()
	for _, cb := range callbacks {
		if err := cb(c); err != nil {
			w.log.Warnw("config reload callback failed", logger.FieldError, err)
		}
	}
}

func isBackupFile(path string) bool {
	return strings.HasSuffix(path, ".back1") || strings.HasSuffix(path, ".back2")
}
