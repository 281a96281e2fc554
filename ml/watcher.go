package ml

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher invokes a callback when artifact files in a directory change.
// Events are debounced because an artifact set is written as several files.
type Watcher struct {
	fsw *fsnotify.Watcher
}

func WatchArtifacts(dir string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w := &Watcher{fsw: fsw}
	go w.run(debounce, onChange)
	return w, nil
}

func (w *Watcher) run(debounce time.Duration, onChange func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	for {
		select {
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			zap.L().Warn("artifact watcher error", zap.Error(err))

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			zap.L().Debug("artifact change detected",
				zap.String("file", event.Name), zap.String("op", event.Op.String()))

			mu.Lock()
			if timer == nil {
				timer = time.AfterFunc(debounce, onChange)
			} else {
				timer.Reset(debounce)
			}
			mu.Unlock()
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
