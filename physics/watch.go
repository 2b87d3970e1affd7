package physics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ConfigWatcher re-applies a YAML tuning file to a World whenever the
// file changes on disk. Meant for live tuning during development; the
// reload happens on the watcher goroutine, so hosts that cannot
// tolerate a mid-frame config swap should stop the watcher before
// stepping.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	world   *World
	log     *zap.Logger
	closeCh chan struct{}
	once    sync.Once
}

// WatchConfig starts watching path and applying it to pw on change.
func WatchConfig(path string, pw *World) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors replace files on save, which drops
	// a direct file watch.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	cw := &ConfigWatcher{
		watcher: w,
		path:    filepath.Clean(path),
		world:   pw,
		log:     pw.Logger(),
		closeCh: make(chan struct{}),
	}
	go cw.run()
	return cw, nil
}

// Close stops the watcher. Safe to call more than once.
func (cw *ConfigWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.closeCh)
		err = cw.watcher.Close()
	})
	return err
}

func (cw *ConfigWatcher) run() {
	var last time.Time
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			now := time.Now()
			if now.Sub(last) < 100*time.Millisecond {
				continue
			}
			last = now
			cw.reload()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log.Warn("config watcher error", zap.Error(err))
		case <-cw.closeCh:
			return
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		cw.log.Warn("config reload failed", zap.String("path", cw.path), zap.Error(err))
		return
	}
	cw.world.SetConfig(cfg)
	cw.log.Info("config reloaded", zap.String("path", cw.path))
}
