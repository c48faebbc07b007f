package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/muurk/smartcalc/internal/logging"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a settings file whenever it changes on disk.
type Watcher struct {
	path     string
	onChange func(*Settings)
	debounce time.Duration

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

// NewWatcher starts watching path. The directory is watched rather than the
// file so that editors replacing the file by rename are picked up. onChange
// is called from the watcher goroutine with every revision that parses and
// validates; invalid revisions are logged and skipped.
func NewWatcher(path string, onChange func(*Settings)) (*Watcher, error) {
	return NewWatcherWithDebounce(path, DefaultDebounce, onChange)
}

// NewWatcherWithDebounce is NewWatcher with a custom debounce interval.
func NewWatcherWithDebounce(path string, debounce time.Duration, onChange func(*Settings)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: debounce,
		watcher:  fsWatcher,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go w.run()

	logging.Debug("Watching config file", zap.String("path", w.path))
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
		<-w.doneCh
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	settings, err := LoadFrom(w.path)
	if err != nil {
		logging.Warn("Ignoring invalid config change",
			zap.String("path", w.path),
			zap.Error(err),
		)
		return
	}
	logging.Info("Config reloaded", zap.String("path", w.path))
	if w.onChange != nil {
		w.onChange(settings)
	}
}
