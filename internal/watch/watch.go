// Package watch reports changes in a working copy once it has been quiet
// for a while.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// metadataDir is the per-directory bookkeeping of the client.
const metadataDir = "CVS"

type Config struct {
	Debounce time.Duration
	// IgnoreSuffixes skips files whose name contains one of these, such as
	// the backup and clean copy files of the compare workflow.
	IgnoreSuffixes []string
}

func DefaultConfig() Config {
	//nolint:mnd //default values
	return Config{
		Debounce:       300 * time.Millisecond,
		IgnoreSuffixes: []string{".temp", "-clean-copy"},
	}
}

type Watcher struct {
	root    string
	config  Config
	watcher *fsnotify.Watcher

	logger *zap.Logger
}

// Open starts watching every directory below root.
func Open(root string, config Config, logger *zap.Logger) (*Watcher, error) {
	if config.Debounce <= 0 {
		config.Debounce = DefaultConfig().Debounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		root:    filepath.Clean(root),
		config:  config,
		watcher: fw,

		logger: logger,
	}

	if addErr := w.addRecursive(w.root); addErr != nil {
		_ = fw.Close()
		return nil, addErr
	}

	return w, nil
}

// Run calls onChange after each burst of changes until ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.ignored(ev.Name) {
				continue
			}

			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if addErr := w.addRecursive(ev.Name); addErr != nil {
						w.logger.Warn("failed to watch new directory", zap.String("path", ev.Name), zap.Error(addErr))
					}
				}
			}

			w.logger.Debug("working copy changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Reset(w.config.Debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			onChange()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) Close() error {
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) addRecursive(dir string) error {
	//nolint:wrapcheck //walk errors are returned as is
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == metadataDir {
			return filepath.SkipDir
		}

		if addErr := w.watcher.Add(path); addErr != nil {
			return fmt.Errorf("failed to watch %s: %w", path, addErr)
		}

		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if slices.Contains(parts, metadataDir) {
		return true
	}

	name := parts[len(parts)-1]
	for _, suffix := range w.config.IgnoreSuffixes {
		if suffix != "" && strings.Contains(name, suffix) {
			return true
		}
	}

	return false
}
