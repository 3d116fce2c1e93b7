// Package watch polls a boolean probe in the background and reports
// transitions. The windowed front end uses it to keep the unsaved-changes
// indicator current without touching editor state from the poll goroutine.
package watch

import (
	"sync"
	"time"

	"github.com/Andy-177/ve/internal/clock"
)

// DefaultInterval is the poll period used when the config gives none.
const DefaultInterval = 500 * time.Millisecond

// Watcher samples a probe once per interval and calls notify with the new
// value whenever consecutive samples differ. The probe must be safe to call
// from another goroutine and must not block; notify runs on the watcher
// goroutine.
type Watcher struct {
	probe  func() bool
	notify func(bool)

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// Start begins polling probe every interval on clk and returns the running
// watcher. The starting state and the ticker are set up before Start
// returns, so notify fires only for changes observed after Start.
func Start(clk clock.Clock, interval time.Duration, probe func() bool, notify func(bool)) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	w := &Watcher{
		probe:  probe,
		notify: notify,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	ticker := clk.NewTicker(interval)
	last := probe()
	go w.run(ticker, last)
	return w
}

// Stop cancels polling and returns once the poll goroutine has exited; no
// notify call can happen after Stop returns. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

func (w *Watcher) run(ticker clock.Ticker, last bool) {
	defer close(w.done)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C():
			if cur := w.probe(); cur != last {
				last = cur
				w.notify(cur)
			}
		}
	}
}
