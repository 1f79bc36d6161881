package nestconf

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursty editor/atomic-write events.
const watchDebounce = 200 * time.Millisecond

// Watch watches the document at path and re-parses it whenever it
// changes, calling onChange with each successfully parsed tree. Parse
// failures are logged and skipped; the previous tree stays current. Watch
// blocks until ctx is cancelled and returns ctx.Err(), or an earlier
// watcher setup error.
func Watch(ctx context.Context, path string, opts Options, logger *slog.Logger, onChange func(Block)) error {
	if logger == nil {
		logger = slog.Default()
	}
	if onChange == nil {
		return errors.New("watch: nil onChange")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the file: editors replace files, which
	// drops a watch on the file itself.
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watching_config", slog.String("path", path))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(watchDebounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(watchDebounce)
		}
		timerCh = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			schedule()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch_error", slog.Any("err", err))
		case <-timerCh:
			timerCh = nil
			block, err := reload(path, opts)
			if err != nil {
				logger.Error("config_reload_failed", slog.String("path", path), slog.Any("err", err))
				continue
			}
			logger.Info("config_reloaded", slog.String("path", path))
			onChange(block)
		}
	}
}

func reload(path string, opts Options) (Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWithOptions(data, opts)
}
