package preview

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors a set of files and invokes a callback when any of them
// changes. Rapid successive changes are debounced into a single call.
//
// Parent directories are watched rather than the files themselves so that
// editors which save by renaming a temporary file are still noticed.
type Watcher struct {
	files    map[string]bool
	onChange func()
	debounce time.Duration
}

// NewWatcher creates a Watcher for files. onChange runs on its own goroutine
// once changes have been quiet for debounce.
func NewWatcher(files []string, debounce time.Duration, onChange func()) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		onChange: onChange,
		debounce: debounce,
	}
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			w.files[abs] = true
		}
	}
	return w
}

// Run watches until ctx is cancelled. It returns nil on cancellation and an
// error only when watching cannot start.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := fsw.Add(d); err != nil {
			return err
		}
		log.Debugf("Watching %s", d)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			// Only trigger on write, create, and rename events.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err != nil || !w.files[abs] {
				continue
			}
			log.Debugf("Change detected: %s", event)

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.onChange)
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Watcher error: %v", err)

		case <-ctx.Done():
			return nil
		}
	}
}
