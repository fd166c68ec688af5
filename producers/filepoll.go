package producers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/abh/reconciled/value"
)

// FilePlatform exposes the integer contents of a single file as a
// Platform, refreshed whenever fsnotify reports the file changed. It
// repurposes the watcher package's fsnotify.Watcher wiring — watch the
// containing directory, filter events down to the one path of
// interest, drain bursts before acting — for a single scalar file
// instead of a whole RECENT-protocol tree, since fsnotify only ever
// watches directories reliably across platforms.
type FilePlatform struct {
	path         string
	errorHandler func(error)

	mu    sync.RWMutex
	value value.Value

	watcher *fsnotify.Watcher
}

// FileOption configures a FilePlatform.
type FileOption func(*FilePlatform)

// WithFileErrorHandler sets a callback invoked on fsnotify or reload
// errors. The default logs to stderr.
func WithFileErrorHandler(h func(error)) FileOption {
	return func(p *FilePlatform) { p.errorHandler = h }
}

// NewFilePlatform opens path, reads its initial integer value, and
// starts watching its containing directory for changes.
func NewFilePlatform(path string, opts ...FileOption) (*FilePlatform, error) {
	p := &FilePlatform{
		path:         path,
		errorHandler: func(err error) { fmt.Fprintf(os.Stderr, "file platform error: %v\n", err) },
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.reload(); err != nil {
		return nil, fmt.Errorf("initial read of %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	p.watcher = fsw

	return p, nil
}

// Value implements Platform.
func (p *FilePlatform) Value() value.Value {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Run watches for file changes until ctx is cancelled, reloading the
// value on every relevant write. It drains bursts of events — editors
// frequently fire create+write+chmod for a single save — before
// reloading once, the same batching idiom the teacher's watcher uses
// for filesystem trees.
func (p *FilePlatform) Run(ctx context.Context) error {
	defer p.watcher.Close()

	target := filepath.Clean(p.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-p.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			drained := true
			for drained {
				select {
				case _, ok := <-p.watcher.Events:
					if !ok {
						drained = false
					}
				default:
					drained = false
				}
			}

			if err := p.reload(); err != nil {
				p.errorHandler(fmt.Errorf("reload %s: %w", p.path, err))
			}

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return nil
			}
			p.errorHandler(fmt.Errorf("fsnotify: %w", err))
		}
	}
}

func (p *FilePlatform) reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}

	n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s as integer: %w", p.path, err)
	}

	p.mu.Lock()
	p.value = value.Value(n)
	p.mu.Unlock()

	return nil
}
