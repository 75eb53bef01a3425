package services

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/duoslide/duoslide-cli/internal/logger"
)

// NotesWatcher watches a notes sidecar file and invokes a callback when
// it changes, so edits made during a presentation show up without a
// manual reload.
//
// The watch is on the containing directory, not the file itself:
// editors commonly replace the file via rename, which would otherwise
// drop the watch after the first save.
type NotesWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	done     chan struct{}
}

// WatchNotes starts watching the sidecar at path. The callback runs on
// the watcher goroutine; it must hand off and return quickly.
func WatchNotes(path string, onChange func()) (*NotesWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating notes watcher: %w", err)
	}

	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	nw := &NotesWatcher{
		watcher:  w,
		path:     filepath.Clean(path),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go nw.loop()
	return nw, nil
}

func (w *NotesWatcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("notes sidecar changed (%s), reloading", event.Op)
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("notes watcher: %v", err)
		}
	}
}

// Close stops the watcher and waits for the event loop to drain.
func (w *NotesWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
