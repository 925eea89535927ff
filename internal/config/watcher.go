package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher monitors the .env file during long-running watch sessions and
// invokes the reload callback when it changes.
type Watcher struct {
	envPath  string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func()
}

// NewWatcher creates a watcher for the given env file path.
func NewWatcher(envPath string, onChange func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		envPath:  envPath,
		watcher:  fsWatcher,
		stopChan: make(chan struct{}),
		onChange: onChange,
	}, nil
}

// Start begins watching the env file's directory.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.envPath)
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.watchForChanges()
	log.Info().Str("path", w.envPath).Msg("Started watching config file for changes")
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	select {
	case <-w.stopChan:
		return
	default:
		close(w.stopChan)
	}
	w.watcher.Close()
}

func (w *Watcher) watchForChanges() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.envPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce so the write completes before reloading
				time.Sleep(100 * time.Millisecond)
				log.Info().Str("event", event.Op.String()).Msg("Detected config file change")
				if w.onChange != nil {
					w.onChange()
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Config watcher error")

		case <-w.stopChan:
			return
		}
	}
}
