package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Watch signals on the returned channel when the file at path changes.
// Bursts are coalesced: at most one signal per interval, and at most one
// signal waits unread. The channel is closed once ctx is done.
func Watch(ctx context.Context, path string, interval time.Duration, log *zap.Logger) (<-chan struct{}, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if IsURL(path) {
		return nil, fmt.Errorf("watch %s: only local files can be watched", path)
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	// Editors replace files by rename, so the directory is watched.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	limiter := rate.NewLimiter(limit, 1)
	out := make(chan struct{}, 1)

	go func() {
		var timer *time.Timer
		var fire <-chan time.Time
		defer func() {
			if timer != nil {
				timer.Stop()
			}
			watcher.Close()
			close(out)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target ||
					evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if fire != nil {
					continue // a signal is already scheduled
				}
				timer = time.NewTimer(limiter.Reserve().Delay())
				fire = timer.C
			case <-fire:
				fire = nil
				select {
				case out <- struct{}{}:
					log.Debug("source changed", zap.String("path", target))
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error", zap.Error(err))
			}
		}
	}()
	return out, nil
}
