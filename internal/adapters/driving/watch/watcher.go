// Package watch uploads files as they appear in a local directory.
// It is a driving adapter: file system events become upload intents.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultSettle is how long a file must stay unchanged before upload.
const DefaultSettle = 500 * time.Millisecond

// ErrNotDirectory is returned when the watched path is not a directory.
var ErrNotDirectory = errors.New("watch: path is not a directory")

// Uploader receives upload intents. driving.DocumentSync satisfies it.
type Uploader interface {
	UploadPaths(ctx context.Context, paths []string) error
}

// Options tunes a Watcher.
type Options struct {
	// Settle is the quiet period after the last write before a file is
	// uploaded. Defaults to DefaultSettle.
	Settle time.Duration

	// UploadExisting uploads files already present when Run starts.
	UploadExisting bool
}

// Watcher uploads every regular, non-hidden file created or rewritten in
// one directory. Subdirectories are not watched.
type Watcher struct {
	dir      string
	uploader Uploader
	settle   time.Duration
	existing bool

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string
	done    chan struct{}
}

// New creates a watcher for dir.
func New(dir string, uploader Uploader, opts Options) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}

	return &Watcher{
		dir:      dir,
		uploader: uploader,
		settle:   opts.Settle,
		existing: opts.UploadExisting,
		pending:  make(map[string]*time.Timer),
		ready:    make(chan string),
		done:     make(chan struct{}),
	}, nil
}

// Run watches until ctx is cancelled. Uploads run one at a time on the
// calling goroutine; upload failures are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	defer w.stop()

	logger.Debug("watching %s", w.dir)

	if w.existing {
		paths, err := w.existingFiles()
		if err != nil {
			return err
		}
		w.upload(ctx, paths...)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if path := w.handleFsEvent(event); path != "" {
				w.schedule(path)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", w.dir, err)

		case path := <-w.ready:
			w.upload(ctx, path)
		}
	}
}

// handleFsEvent returns the path to upload for event, or "" to ignore it.
func (w *Watcher) handleFsEvent(event fsnotify.Event) string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ""
	}
	if skipName(filepath.Base(event.Name)) {
		return ""
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return event.Name
}

// schedule (re)starts the settle timer of path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-w.done:
		}
	})
}

// stop cancels pending timers and releases blocked timer callbacks.
func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	close(w.done)
}

func (w *Watcher) upload(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}
	logger.Debug("watch upload: %s", strings.Join(paths, ", "))
	if err := w.uploader.UploadPaths(ctx, paths); err != nil {
		logger.Warn("watch upload failed: %v", err)
	}
}

// existingFiles lists the uploadable files already in the directory.
func (w *Watcher) existingFiles() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", w.dir, err)
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || skipName(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(w.dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// skipName reports hidden files and partial downloads.
func skipName(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tmp", ".part", ".crdownload", ".swp":
		return true
	}
	return false
}
