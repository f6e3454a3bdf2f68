package main

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

const debounce = 200 * time.Millisecond

// Watcher calls back after writes to one file settle.
type Watcher struct {
	file     string
	callback func() error
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	done     chan struct{}
}

func NewWatcher(file string, callback func() error, logger *slog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create watcher")
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		watcher.Close()
		return nil, errors.Wrap(err, "failed to get absolute path")
	}

	// Editors replace files on save, so the directory is watched instead.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, errors.Wrap(err, "failed to watch directory")
	}

	return &Watcher{
		file:     absPath,
		callback: callback,
		watcher:  watcher,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the callback once and then after every settled change.
func (w *Watcher) Start() error {
	if err := w.callback(); err != nil {
		return errors.Wrap(err, "initial callback failed")
	}

	go func() {
		timer := time.NewTimer(debounce)
		timer.Stop()
		var settled <-chan time.Time

		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if path, err := filepath.Abs(event.Name); err == nil && path == w.file {
					timer.Reset(debounce)
					settled = timer.C
				}

			case <-settled:
				settled = nil
				w.logger.Debug("file changed", "file", w.file)
				if err := w.callback(); err != nil {
					w.logger.Error("watch callback failed", "error", err)
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Error("watch failed", "error", err)

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
