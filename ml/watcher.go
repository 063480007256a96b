package ml

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"homeval/logging"
)

// WatchModel reloads the predictor whenever the artifact file is replaced
// on disk. A reload that fails keeps the previous model. The returned
// function stops the watcher.
func WatchModel(path string, predictor *Predictor) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors and atomic renames
	// replace the inode the file watch would be pinned to.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				model, err := LoadModel(target)
				if err != nil {
					logging.L().Warn("model reload failed, keeping previous model",
						zap.String("path", target), zap.Error(err))
					continue
				}
				predictor.Reload(model)
				logging.L().Info("model artifact reloaded", zap.String("path", target))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.L().Warn("model watcher error", zap.Error(err))
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
