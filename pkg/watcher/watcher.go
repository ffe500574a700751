// Package watcher monitors a seed file for changes using fsnotify with a
// polling fallback, debouncing bursts of events into a single notification.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults for debouncing and fallback polling.
const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultPollInterval = 2 * time.Second
)

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window for change notifications.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithOnError sets the callback invoked on watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll forces polling mode even when fsnotify is available.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// Watcher monitors a single file. Change notifications arrive on the
// channel returned by Changed; at most one notification is buffered.
type Watcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	onError      func(error)
	forcePoll    bool

	fsWatcher *fsnotify.Watcher
	polling   bool
	lastMtime time.Time
	lastSize  int64

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	timerMu  sync.Mutex
	timer    *time.Timer
	changeCh chan struct{}
}

// New creates a watcher for the given file path.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:         absPath,
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		onError:      func(error) {},
		changeCh:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. Events for other files in the same directory
// are ignored; watching the directory rather than the file itself keeps
// notifications working across atomic replace-by-rename saves.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())

	info, err := os.Stat(w.path)
	if err != nil {
		if os.IsPermission(err) {
			return ErrPermission
		}
		// File may not exist yet; polling picks it up on creation.
		w.lastMtime = time.Time{}
		w.lastSize = 0
	} else {
		w.lastMtime = info.ModTime()
		w.lastSize = info.Size()
	}

	w.polling = w.forcePoll || envBool("TREEVIEW_FORCE_POLL")
	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			w.polling = true
		} else if err := fsw.Add(filepath.Dir(w.path)); err != nil {
			fsw.Close()
			w.polling = true
		} else {
			w.fsWatcher = fsw
			go w.watchFsnotify()
		}
	}
	if w.polling {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// Stop halts watching. The change channel is left open so a reader
// blocked on Changed does not observe a spurious close.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}

	if w.cancel != nil {
		w.cancel()
	}
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.timerMu.Unlock()

	w.started = false
}

// Changed returns the channel that receives change notifications.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// IsPolling reports whether the watcher fell back to polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted reports whether the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Path returns the absolute watched path.
func (w *Watcher) Path() string {
	return w.path
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func (w *Watcher) watchFsnotify() {
	targetFile := filepath.Base(w.path)

	// Capture channels up front so Stop clearing fsWatcher cannot race us.
	w.mu.RLock()
	if w.fsWatcher == nil {
		w.mu.RUnlock()
		return
	}
	events := w.fsWatcher.Events
	errs := w.fsWatcher.Errors
	w.mu.RUnlock()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != targetFile {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.scheduleNotify()
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				switch {
				case os.IsNotExist(err):
					w.mu.RLock()
					hadFile := !w.lastMtime.IsZero()
					w.mu.RUnlock()
					if hadFile {
						w.onError(ErrFileRemoved)
					}
				case os.IsPermission(err):
					w.onError(ErrPermission)
				default:
					w.onError(err)
				}
				continue
			}

			w.mu.Lock()
			changed := info.ModTime().After(w.lastMtime) || info.Size() != w.lastSize
			if changed {
				w.lastMtime = info.ModTime()
				w.lastSize = info.Size()
			}
			w.mu.Unlock()

			if changed {
				w.scheduleNotify()
			}
		}
	}
}

// scheduleNotify collapses rapid event bursts into one notification
// after the debounce window passes quiet.
func (w *Watcher) scheduleNotify() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notifyChange)
}

func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		return
	}

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
