package session

import (
	"sync"
	"time"

	"github.com/meshsite/planner/internal/status"
)

// Autosaver debounces session saves: each change restarts a quiet
// period, and only a full quiet period with no further changes
// triggers a write. Saves are best effort; failures surface as status
// messages and never interrupt editing.
type Autosaver struct {
	svc    *Service
	status *status.Reporter
	clock  Clock
	delay  time.Duration

	mu     sync.Mutex
	timer  Timer
	cancel chan struct{}
	closed bool
}

// NewAutosaver creates an Autosaver with the given quiet period.
func NewAutosaver(svc *Service, reporter *status.Reporter, clock Clock, delay time.Duration) *Autosaver {
	return &Autosaver{
		svc:    svc,
		status: reporter,
		clock:  clock,
		delay:  delay,
	}
}

// NoteChange records a qualifying state change. Any pending timer is
// discarded and a fresh quiet period starts. Resetting the old timer
// instead would race its own fire: a tick already in flight when the
// change lands would save immediately rather than a full period later.
func (a *Autosaver) NoteChange() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.discardPendingLocked()

	t := a.clock.NewTimer(a.delay)
	c := make(chan struct{})
	a.timer, a.cancel = t, c
	go a.wait(t, c)
}

func (a *Autosaver) wait(t Timer, cancel <-chan struct{}) {
	select {
	case <-t.C():
	case <-cancel:
		return
	}

	a.mu.Lock()
	// A fire from a superseded timer loses the race; only the current
	// timer's tick may save.
	if a.closed || a.timer != t {
		a.mu.Unlock()
		return
	}
	a.timer, a.cancel = nil, nil
	a.mu.Unlock()

	a.save()
}

// discardPendingLocked stops the pending timer and releases its wait
// goroutine. Callers hold a.mu.
func (a *Autosaver) discardPendingLocked() {
	if a.timer == nil {
		return
	}
	a.timer.Stop()
	close(a.cancel)
	a.timer, a.cancel = nil, nil
}

func (a *Autosaver) save() {
	err := a.svc.Save()
	switch {
	case err == nil:
		a.status.Info("session saved")
	case err == ErrNothingToSave:
		// image was cleared while the timer ran; nothing to persist
	default:
		a.svc.logger.Error("Autosave failed", "error", err)
		a.status.Error("autosave failed: " + err.Error())
	}
}

// Flush cancels any pending debounce and saves immediately.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	a.discardPendingLocked()
	a.mu.Unlock()

	a.save()
}

// Close cancels any pending save permanently.
func (a *Autosaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.discardPendingLocked()
}
