// Package display renders activity store snapshots as text.
package display

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dnsco/potential/activities"
)

// Render formats s as "<n> activities (<status>)".
func Render(s activities.State) string {
	return fmt.Sprintf("%d activities (%s)", len(s.Activities), s.Status)
}

// Watcher writes one rendered line per state it is notified with.
// Its Update method has the activities.Listener signature, so it can be
// passed straight to Store.Subscribe.
type Watcher struct {
	w      io.Writer
	logger *slog.Logger

	mu   sync.Mutex
	last string
}

// NewWatcher creates a Watcher writing to w.
func NewWatcher(w io.Writer) *Watcher {
	return &Watcher{w: w}
}

// WithLogger makes the watcher also log each rendered line at debug level.
func (wt *Watcher) WithLogger(logger *slog.Logger) *Watcher {
	wt.logger = logger
	return wt
}

// Update renders s and writes it on its own line.
func (wt *Watcher) Update(s activities.State) {
	line := Render(s)

	wt.mu.Lock()
	defer wt.mu.Unlock()
	wt.last = line

	if wt.logger != nil {
		wt.logger.Debug(line, "status", s.Status.String())
	}
	fmt.Fprintln(wt.w, line)
}

// Last returns the most recently rendered line, or "" before the first update.
func (wt *Watcher) Last() string {
	wt.mu.Lock()
	defer wt.mu.Unlock()
	return wt.last
}
