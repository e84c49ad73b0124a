package watcher

import "context"

// SourceWatcher monitors source files for changes with debouncing.
type SourceWatcher interface {
	// Start begins watching, calling callback with the debounced set of changed files.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the watcher and cleans up resources.
	Stop() error
}
