package mockserver

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

// WatchFixtures reloads the fixtures whenever a fixture file in the fixtures
// dir changes. Bursts of events within debounce trigger one reload. The
// returned Closer stops the watcher.
func (s *Server) WatchFixtures(debounce time.Duration) (io.Closer, error) {
	dir := strings.TrimSpace(s.opts.FixturesDir)
	if dir == "" {
		return closerFunc(func() error { return nil }), nil
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		resetTimer := func() {
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			timerC = timer.C
		}

		for {
			select {
			case <-stopCh:
				if timer != nil {
					timer.Stop()
				}
				return
			case <-timerC:
				timerC = nil
				if err := s.Reload(); err != nil {
					s.logger.Error("fixture reload failed", "dir", dir, "error", err)
					continue
				}
				s.logger.Info("fixtures reloaded", "dir", dir, "fixtures", s.Fixtures().Names())
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("fixture watcher error", "error", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if shouldTriggerFixtureReload(evt) {
					resetTimer()
				}
			}
		}
	}()

	s.logger.Info("fixture auto-reload enabled", "dir", dir, "debounce", debounce)
	return closerFunc(func() error {
		close(stopCh)
		_ = watcher.Close()
		<-doneCh
		return nil
	}), nil
}

func shouldTriggerFixtureReload(evt fsnotify.Event) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return isFixtureFile(filepath.Base(evt.Name))
}
