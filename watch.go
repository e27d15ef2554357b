package prez

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/k1LoW/errors"
	"github.com/lestrrat-go/backoff/v2"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 300 * time.Millisecond

// Watch blocks watching paths and calls fn after each change, debounced.
// Failures of fn are retried with backoff in case a file was caught
// mid-write; once retries are exhausted the error is logged and watching
// resumes. Watch returns when ctx is canceled.
func (g *Generator) Watch(ctx context.Context, paths []string, fn func(context.Context) error) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	watched := map[string]struct{}{}
	dirs := map[string]struct{}{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	if len(watched) == 0 {
		return fmt.Errorf("nothing to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch parent directories instead of the files: editors replace files
	// by rename on save, which silently drops a direct file watch.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	for p := range watched {
		g.logger.Info("watching for changes", slog.String("path", p))
	}

	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if _, ok := watched[abs]; !ok {
				continue
			}
			g.logger.Info("change detected", slog.String("path", abs))
			pending = true
			debounce.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Error("watch error", slog.String("error", err.Error()))
		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			if err := g.rerun(ctx, fn); err != nil {
				g.logger.Error("failed to regenerate", slog.String("error", err.Error()))
			}
		}
	}
}

// rerun calls fn, retrying with exponential backoff. A save can land as
// several writes and the first run may catch the file half-written.
func (g *Generator) rerun(ctx context.Context, fn func(context.Context) error) error {
	p := backoff.Exponential(
		backoff.WithMinInterval(200*time.Millisecond),
		backoff.WithMaxInterval(2*time.Second),
		backoff.WithMaxRetries(4),
	)
	b := p.Start(ctx)
	var err error
	for backoff.Continue(b) {
		if err = fn(ctx); err == nil {
			return nil
		}
		g.logger.Info("retrying generate", slog.String("error", err.Error()))
	}
	return err
}
