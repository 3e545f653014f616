// Package watcher reports changes to dialog documents on disk.
//
// Editors often save by writing a temporary file and renaming it over the
// original, which removes the watched inode. The watcher therefore watches
// the directories containing the documents and filters events by name.
// Bursts of events are coalesced by a [Debouncer].
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Change is a batch of modified documents.
type Change struct {
	Paths     []string
	Events    int
	Timestamp time.Time
}

// FileWatcher watches a fixed set of files.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	events  chan Change
	logger  *log.Logger
}

// NewFileWatcher watches the given files. Paths are made absolute.
func NewFileWatcher(paths []string, logger *log.Logger) (*FileWatcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if logger == nil {
		logger = log.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher: w,
		files:   make(map[string]bool, len(paths)),
		events:  make(chan Change, 16),
		logger:  logger,
	}
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return fw, nil
}

// Start processes file system events until ctx is done. Every relevant
// event is forwarded as a single-path Change; use a Debouncer to batch them.
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.run(ctx)
}

// Events returns the raw change channel. It is closed when the watcher
// stops.
func (fw *FileWatcher) Events() <-chan Change {
	return fw.events
}

func (fw *FileWatcher) run(ctx context.Context) {
	defer close(fw.events)
	defer fw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.relevant(ev) {
				continue
			}
			fw.logger.Debug("file event", "path", ev.Name, "op", ev.Op.String())
			select {
			case fw.events <- Change{Paths: []string{ev.Name}, Events: 1, Timestamp: time.Now()}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watch error", "error", err)
		}
	}
}

func (fw *FileWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	return err == nil && fw.files[abs]
}

// Files returns the watched paths in sorted order.
func (fw *FileWatcher) Files() []string {
	out := make([]string, 0, len(fw.files))
	for p := range fw.files {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
