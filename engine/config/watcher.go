package config

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/prelight/engine/core"
)

/**
 * @brief Reloads a pipeline configuration file whenever it is written and
 * hands the result to a callback. The callback runs on the watcher
 * goroutine. Files that fail to load are logged and skipped.
 */
type Watcher struct {
	path     string
	onChange func(*PipelineConfig)

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func NewWatcher(path string, onChange func(*PipelineConfig)) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("config watcher requires a callback")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors replace files on save, so the directory is watched rather than the file.
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		onChange: onChange,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			c, err := Load(w.path)
			if err != nil {
				core.LogError("failed to reload pipeline config: %s", err.Error())
				continue
			}
			core.LogInfo("pipeline config '%s' reloaded", w.path)
			w.onChange(c)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-w.done:
			return
		}
	}
}

// Close stops watching and waits for the watcher goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.wg.Wait()
		err = w.fsnotify.Close()
	})
	return err
}
