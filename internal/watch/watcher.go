package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"fut/pkg/logging"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// watchedExtensions are the file types that can change the outcome of a run.
var watchedExtensions = []string{".yaml", ".yml", ".json", ".xml"}

// Handler is invoked with the sorted set of paths changed since the last trigger.
type Handler func(ctx context.Context, changed []string)

// Watcher collapses filesystem events into debounced triggers.
type Watcher struct {
	mu sync.Mutex

	dirs     []string
	debounce time.Duration
	// ignored are absolute files and directories a run writes to
	ignored []string

	// pending holds changed paths not yet delivered
	pending map[string]bool
	timer   *time.Timer
	trigger chan struct{}
}

// New creates a Watcher for the given directories.
// Duplicate directories are ignored. Events for the ignore paths, or for
// anything below an ignored directory, never trigger the handler. An ignore
// entry that is or contains a watched directory is dropped.
func New(dirs []string, debounce time.Duration, ignore ...string) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	var unique []string
	for _, d := range dirs {
		d = filepath.Clean(d)
		if !slices.Contains(unique, d) {
			unique = append(unique, d)
		}
	}
	var ignored []string
	for _, p := range ignore {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil || coversAny(abs, unique) {
			continue
		}
		ignored = append(ignored, abs)
	}
	return &Watcher{
		dirs:     unique,
		debounce: debounce,
		ignored:  ignored,
		pending:  make(map[string]bool),
		trigger:  make(chan struct{}, 1),
	}
}

// Dirs returns the directories being watched.
func (w *Watcher) Dirs() []string { return w.dirs }

// DirsFor returns the parent directories of paths, suitable for New.
func DirsFor(paths ...string) []string {
	dirs := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dirs = append(dirs, p)
			continue
		}
		dirs = append(dirs, filepath.Dir(p))
	}
	return dirs
}

// Run watches until ctx is cancelled, calling handle once per debounced burst.
// Handler calls never overlap; changes that arrive while a handler runs are
// delivered afterwards as one more trigger.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			logging.Warn("Watch", "Failed to watch %s: %v", dir, err)
			continue
		}
		logging.Debug("Watch", "Watching directory: %s", dir)
	}
	logging.Info("Watch", "Watching %d director(ies) for changes", len(w.dirs))

	done := make(chan struct{})
	defer close(done)
	go w.dispatch(ctx, done, handle)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watch", err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, done <-chan struct{}, handle Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-w.trigger:
			changed := w.drain()
			if len(changed) == 0 {
				continue
			}
			logging.Info("Watch", "Detected %d changed file(s), re-running", len(changed))
			handle(ctx, changed)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !isWatchedFile(event.Name) || w.isIgnored(event.Name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.record(event.Name)
}

// record adds path to the pending set and restarts the quiet period.
func (w *Watcher) record(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
			// a trigger is already queued and will pick up this change
		}
	})
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	clear(w.pending)
	slices.Sort(changed)
	return changed
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) isIgnored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, ig := range w.ignored {
		if within(abs, ig) {
			return true
		}
	}
	return false
}

// coversAny reports whether dir is, or contains, one of dirs.
func coversAny(dir string, dirs []string) bool {
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err == nil && within(abs, dir) {
			return true
		}
	}
	return false
}

func within(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

func isWatchedFile(path string) bool {
	base := filepath.Base(path)
	// editors' swap and backup files
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return slices.Contains(watchedExtensions, strings.ToLower(filepath.Ext(path)))
}
