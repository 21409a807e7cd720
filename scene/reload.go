package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/mawarena/prefabs"
)

var ErrNoWatchDirs = errors.New("scene: prefab override directory does not exist")

// TuningReloader watches the prefab override directory and applies changes
// to an arena. Poll runs on the game loop, so no arena state is touched from
// the watcher goroutine.
type TuningReloader struct {
	loader  prefabs.Loader
	watcher *prefabs.Watcher
	logger  *zap.Logger
}

func NewTuningReloader(loader prefabs.Loader, logger *zap.Logger) (*TuningReloader, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dirs := loader.WatchDirs()
	if len(dirs) == 0 {
		return nil, ErrNoWatchDirs
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return nil, fmt.Errorf("scene: watch prefabs: %w", err)
	}
	return &TuningReloader{loader: loader, watcher: w, logger: logger}, nil
}

// Poll drains pending file changes without blocking. When any touched the
// catalog it reloads it into a and reports true.
func (r *TuningReloader) Poll(a *Arena) bool {
	changed := false
	for {
		select {
		case path, ok := <-r.watcher.Events:
			if !ok {
				return r.apply(a, changed)
			}
			if prefabs.Affects(path) {
				r.logger.Debug("prefab changed", zap.String("path", path))
				changed = true
			}
		case err, ok := <-r.watcher.Errors:
			if ok {
				r.logger.Warn("prefab watcher error", zap.Error(err))
			}
		default:
			return r.apply(a, changed)
		}
	}
}

func (r *TuningReloader) apply(a *Arena, changed bool) bool {
	if !changed {
		return false
	}
	c, err := prefabs.LoadCatalog(r.loader)
	if err != nil {
		r.logger.Warn("prefab reload failed", zap.Error(err))
		return false
	}
	if err := a.ReloadTuning(c); err != nil {
		r.logger.Warn("tuning partially applied", zap.Error(err))
	}
	return true
}

func (r *TuningReloader) Close() error {
	return r.watcher.Close()
}
