package plugin

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jmrbcu/fstool/pkg/logger"
)

// WatchEvent reports a change to a plugin definitions entry under one of
// the watched search paths.
type WatchEvent struct {
	// Path is the filesystem entry that changed.
	Path string

	// Op describes the change (create, write, remove, rename).
	Op string
}

// Watcher observes plugin search paths and reports changes to definition
// manifests and archives, so a host can re-run discovery. Events for
// unrelated files are filtered out.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan WatchEvent

	// quit aborts a pending event delivery so Close never waits on a
	// receiver that is gone.
	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

// NewWatcher starts watching the given search paths. Paths that do not
// exist are skipped; watching no path at all is an error surfaced by the
// first Add that fails.
func NewWatcher(paths []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if err := fsw.Add(path); err != nil {
			logger.Warn("[plugin] not watching %s: %v", path, err)
		}
	}

	w := &Watcher{
		fsw:    fsw,
		events: make(chan WatchEvent),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Events returns the channel of filtered watch events. The channel is
// closed when the watcher is closed.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Close stops watching and closes the event channel. It returns once the
// event loop has exited, even when an undelivered event is still pending.
func (w *Watcher) Close() error {
	w.quitOnce.Do(func() { close(w.quit) })
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.events)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(event.Name) {
				continue
			}
			logger.Debug("[plugin] definitions change detected: %s (%s)", event.Name, event.Op)
			select {
			case w.events <- WatchEvent{Path: event.Name, Op: event.Op.String()}:
			case <-w.quit:
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("[plugin] watch error: %v", err)
		}
	}
}

// relevant reports whether the changed entry can carry plugin definitions:
// a definitions manifest, a single-file unit or a packaged archive.
func relevant(path string) bool {
	base := filepath.Base(path)
	switch {
	case base == DefinitionsName:
		return true
	case strings.HasPrefix(base, "_"):
		return false
	case strings.HasSuffix(base, ".json"), strings.HasSuffix(base, ".zip"):
		return true
	default:
		return false
	}
}
