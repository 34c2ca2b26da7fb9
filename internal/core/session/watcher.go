package session

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/util"
)

// FileWatcher watches loaded plot files and reports writes so interactive
// modes can rebuild the index. Events are delivered on a single channel;
// the consumer rebuilds before extracting again, preserving the
// index-before-extraction ordering guarantee.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	events  chan model.FileEvent
}

// NewFileWatcher watches the parent directories of the given files.
func NewFileWatcher(paths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		events:  make(chan model.FileEvent, 100),
	}

	seen := make(map[string]struct{})
	for _, path := range paths {
		dir := filepath.Dir(path)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			// Only plot files are of interest.
			base := filepath.Base(event.Name)
			if strings.HasPrefix(base, "Plot_scalar.") || strings.HasPrefix(base, "Plot_vector.") {
				fw.events <- model.FileEvent{
					Path:      event.Name,
					Operation: event.Op.String(),
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

// Events returns the file event channel.
func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
