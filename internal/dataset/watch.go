package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent is emitted by Watch when the dataset file may have changed.
type ChangeEvent struct {
	Path string
	At   time.Time
}

const watchThrottle = 100 * time.Millisecond

// Watch streams change notifications for path until ctx is cancelled.
// The parent directory is watched so editors that replace the file via
// rename are still noticed. Callers should drain the channel; events are
// dropped rather than blocking the watcher.
func Watch(ctx context.Context, path string) (<-chan ChangeEvent, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return nil, errors.New("dataset: nothing to watch")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("dataset: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("dataset: watch %s: %w", dir, err)
	}

	events := make(chan ChangeEvent, 16)

	var sendMu sync.Mutex
	closed := false

	go func() {
		defer func() {
			sendMu.Lock()
			closed = true
			close(events)
			sendMu.Unlock()
		}()
		defer func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "dataset: watcher close: %v\n", err)
			}
		}()

		send := func(ev ChangeEvent) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if closed {
				return
			}
			select {
			case events <- ev:
			default:
			}
		}

		throttle := newEventThrottle(watchThrottle)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Unclassifiable; treat as a change.
				throttle.Enqueue(abs, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != abs {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				throttle.Enqueue(abs, send)
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces bursts of writes (editors often write a file in
// several steps) into one notification.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(path string, send func(ChangeEvent)) {
	t.mu.Lock()
	t.pending[path] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(ChangeEvent)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	now := time.Now()
	for p := range pending {
		send(ChangeEvent{Path: p, At: now})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
