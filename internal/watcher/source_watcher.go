package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes fires the callback.
const DefaultDebounce = 500 * time.Millisecond

// sourceWatcher implements SourceWatcher for an explicit set of files.
//
// Editors often save by writing a temp file and renaming it over the original,
// which drops a watch placed on the file itself. The parent directories are
// watched instead and events are filtered down to the tracked files.
type sourceWatcher struct {
	watcher       *fsnotify.Watcher
	files         map[string]bool // Absolute, cleaned paths being tracked
	debounceTime  time.Duration   // Quiet period before firing callback
	callback      func(files []string)
	ctx           context.Context
	cancel        context.CancelFunc
	accumulated   map[string]bool // Accumulated file changes
	accumulatedMu sync.Mutex      // Protects accumulated map
	debounceTimer *time.Timer
	timerMu       sync.Mutex    // Protects debounce timer
	stopOnce      sync.Once     // Ensures Stop() is idempotent
	doneCh        chan struct{} // Signals watch goroutine has finished
}

// NewSourceWatcher creates a watcher for the given files.
// Each file's directory must exist; the files themselves may not exist yet.
func NewSourceWatcher(files []string, debounce time.Duration) (SourceWatcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	sw := &sourceWatcher{
		watcher:      watcher,
		files:        make(map[string]bool),
		debounceTime: debounce,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", file, err)
		}
		sw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	return sw, nil
}

// Start begins watching for file changes.
func (sw *sourceWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	sw.callback = callback
	sw.ctx, sw.cancel = context.WithCancel(ctx)

	go sw.watch()
	return nil
}

// Stop stops the watcher.
func (sw *sourceWatcher) Stop() error {
	var err error
	sw.stopOnce.Do(func() {
		if sw.cancel != nil {
			sw.cancel()

			// Wait for goroutine to finish (only if Start() was called)
			<-sw.doneCh
		} else {
			close(sw.doneCh)
		}

		err = sw.watcher.Close()
	})
	return err
}

// watch is the main event loop.
func (sw *sourceWatcher) watch() {
	defer close(sw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-sw.ctx.Done():
			sw.stopDebounceTimer()
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			if !sw.shouldProcessEvent(event) {
				continue
			}

			sw.accumulatedMu.Lock()
			sw.accumulated[filepath.Clean(event.Name)] = true
			sw.accumulatedMu.Unlock()

			sw.resetDebounceTimer(fireCh)

		case <-fireCh:
			sw.handleDebounceExpired()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Source watcher error: %v", err)
		}
	}
}

// handleDebounceExpired is called when the debounce timer expires.
func (sw *sourceWatcher) handleDebounceExpired() {
	if files := sw.drain(); len(files) > 0 && sw.callback != nil {
		sw.callback(files)
	}
}

// drain returns and clears the accumulated files, sorted for stable output.
func (sw *sourceWatcher) drain() []string {
	sw.accumulatedMu.Lock()
	defer sw.accumulatedMu.Unlock()

	if len(sw.accumulated) == 0 {
		return nil
	}

	files := make([]string, 0, len(sw.accumulated))
	for file := range sw.accumulated {
		files = append(files, file)
	}
	sw.accumulated = make(map[string]bool)

	sort.Strings(files)
	return files
}

// resetDebounceTimer restarts the quiet period.
func (sw *sourceWatcher) resetDebounceTimer(fireCh chan struct{}) {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}

	sw.debounceTimer = time.AfterFunc(sw.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

// stopDebounceTimer stops the debounce timer if it exists.
func (sw *sourceWatcher) stopDebounceTimer() {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
		sw.debounceTimer = nil
	}
}

// shouldProcessEvent keeps write, create and rename events on tracked files.
func (sw *sourceWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return sw.files[filepath.Clean(event.Name)]
}
