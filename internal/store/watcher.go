package store

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cwarden/eventscope/internal/logger"
)

// Watcher reloads a Memory whenever its events file changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	mem      *Memory
	onReload func()
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// Watch starts watching path. onReload, if set, runs after each
// successful reload on the watcher's goroutine.
func Watch(mem *Memory, path string, onReload func()) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory so editors that replace the file are seen.
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		path:     absPath,
		mem:      mem,
		onReload: onReload,
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}
	go w.watch()
	return w, nil
}

func (w *Watcher) watch() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != w.path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce rapid events
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.timer = time.AfterFunc(w.debounce, w.reload)
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.L().Warn("events watcher error", "err", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	if err := w.mem.LoadFile(w.path); err != nil {
		logger.L().Error("events reload failed", "path", w.path, "err", err)
		return
	}
	logger.L().Info("events reloaded", "path", w.path)
	if w.onReload != nil {
		w.onReload()
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
