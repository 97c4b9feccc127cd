package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangedCallback is called after the database file changes on disk.
type ChangedCallback func()

// Watch starts an fsnotify watcher on the database file's directory and
// invokes cb whenever the file (or its WAL sidecar) is written, until ctx is
// cancelled. This catches edits made outside the running process, e.g. with
// the sqlite3 CLI, so connected dashboards can refresh.
//
// Bursts of write events are debounced: cb fires once per quiet interval.
func Watch(ctx context.Context, dbPath string, debounce time.Duration, logger *slog.Logger, cb ChangedCallback) error {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(dbPath)
	if err := w.Add(dir); err != nil {
		return err
	}
	base := filepath.Base(dbPath)

	logger.Info("watcher: started", slog.String("db", dbPath))

	var fireTimer *time.Timer
	var fireCh <-chan time.Time

	scheduleFire := func() {
		if fireTimer == nil {
			fireTimer = time.NewTimer(debounce)
			fireCh = fireTimer.C
		} else {
			fireTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if fireTimer != nil {
				fireTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fireCh:
			logger.Debug("watcher: database changed")
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// The WAL and SHM sidecars share the db file's basename prefix.
			if !strings.HasPrefix(filepath.Base(ev.Name), base) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				scheduleFire()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
