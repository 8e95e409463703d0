package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	panwrap "github.com/alnah/go-panwrap"
)

// watchDebounce coalesces the burst of events a single save produces.
const watchDebounce = 150 * time.Millisecond

// watch builds the document, then rebuilds it after every write until ctx
// is cancelled. The directory is watched rather than the file so that
// editors that save by rename keep triggering builds.
func (s *session) watch(ctx context.Context) error {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	s.logger.Info("watcher: started", "source", abs)

	var wg sync.WaitGroup
	defer wg.Wait()
	build := func() {
		ch := s.processor.Process(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if o := <-ch; o.Err != nil {
				s.logger.Debug("watcher: build not completed", "error", o.Err)
			}
		}()
	}
	build()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			s.logger.Info("watcher: stopped")
			return nil

		case <-fire:
			fire = nil
			build()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.logger.Debug("watcher: change", "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher: error", "error", werr)
		}
	}
}

// Compile-time check that the terminal notifier satisfies the interface.
var _ panwrap.Notifier = (*termNotifier)(nil)
