package orders

import (
	"sync"
	"time"

	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/chrisdamba/cafeorder/internal/schedule"
)

const TrackingReleaseWindow = 30 * time.Second

// Tracker holds the id of the order a customer is following. Once that order
// is terminal the reference is released after a window, unless another order
// has been tracked in the meantime.
type Tracker struct {
	mu        sync.Mutex
	sched     schedule.Scheduler
	window    time.Duration
	current   string
	scheduled string
	onRelease func(id string)
}

// NewTracker returns a tracker. onRelease, if set, runs after an automatic
// release, outside the tracker's lock.
func NewTracker(sched schedule.Scheduler, window time.Duration, onRelease func(id string)) *Tracker {
	if window <= 0 {
		window = TrackingReleaseWindow
	}
	return &Tracker{sched: sched, window: window, onRelease: onRelease}
}

// Track follows id, cancelling any release scheduled for a different order.
func (t *Tracker) Track(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.scheduled != "" && t.scheduled != id {
		t.sched.Cancel(releaseKey(t.scheduled))
		t.scheduled = ""
	}
	t.current = id
}

// Observe schedules the release once the tracked order is terminal in list.
func (t *Tracker) Observe(list []models.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == "" || t.scheduled == t.current {
		return
	}
	order, ok := Find(list, t.current)
	if !ok || !IsTerminal(order.Status) {
		return
	}
	id := t.current
	t.scheduled = id
	t.sched.AfterFunc(releaseKey(id), t.window, func() { t.release(id) })
}

func (t *Tracker) release(id string) {
	t.mu.Lock()
	if t.scheduled == id {
		t.scheduled = ""
	}
	if t.current != id {
		t.mu.Unlock()
		return
	}
	t.current = ""
	onRelease := t.onRelease
	t.mu.Unlock()

	if onRelease != nil {
		onRelease(id)
	}
}

func (t *Tracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Release stops tracking immediately.
func (t *Tracker) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.scheduled != "" {
		t.sched.Cancel(releaseKey(t.scheduled))
		t.scheduled = ""
	}
	t.current = ""
}

// Stop cancels a pending release but keeps the tracked id.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.scheduled != "" {
		t.sched.Cancel(releaseKey(t.scheduled))
		t.scheduled = ""
	}
}

func releaseKey(id string) string {
	return "release:" + id
}
