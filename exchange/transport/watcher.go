package transport

import (
	"errors"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/tazee/ModoClipboard/exchange/core"
)

// Watcher reports when the partner application replaces the temp-file
// payload, so a host UI can enable its paste action the moment fresh data
// arrives. Only the temp-file transport is observable; the OS clipboard has
// no change notification worth relying on.
type Watcher struct {
	path     string
	fsnotify *fsnotify.Watcher
	events   chan string
	done     chan struct{}
	isClosed bool
}

// NewWatcher starts watching the payload file of the given transport.
func NewWatcher(t *TempFile) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     t.Path(),
		fsnotify: fsWatch,
		events:   make(chan string),
		done:     make(chan struct{}),
	}

	// Watch the directory, not the file: the payload is replaced by rename
	// and a watch pinned to the old inode would go quiet after the first
	// copy.
	if err := fsWatch.Add(filepath.Dir(w.path)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	go w.start()
	return w, nil
}

// Events delivers the payload path every time it is replaced.
func (w *Watcher) Events() <-chan string {
	return w.events
}

func (w *Watcher) start() {
	for {
		select {
		case e := <-w.fsnotify.Events:
			if e.Name != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				core.LogDebug("payload replaced at %s", w.path)
				select {
				case w.events <- w.path:
				case <-w.done:
					w.fsnotify.Close()
					close(w.events)
					return
				}
			}

		case e := <-w.fsnotify.Errors:
			core.LogError(e.Error())

		case <-w.done:
			w.fsnotify.Close()
			close(w.events)
			return
		}
	}
}

// Close stops the watcher. Safe to call once.
func (w *Watcher) Close() error {
	if w.isClosed {
		return errors.New("watcher already closed")
	}
	w.isClosed = true
	close(w.done)
	return nil
}
