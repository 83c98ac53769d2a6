package schedule

import (
	"sync"
	"time"
)

type wallEntry struct {
	timer *time.Timer
	gen   uint64
}

// Wall schedules tasks on real time using time.AfterFunc.
type Wall struct {
	mu      sync.Mutex
	entries map[string]wallEntry
	gen     uint64
}

func NewWall() *Wall {
	return &Wall{entries: make(map[string]wallEntry)}
}

func (w *Wall) AfterFunc(key string, d time.Duration, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if e, ok := w.entries[key]; ok {
		e.timer.Stop()
	}
	w.gen++
	gen := w.gen
	timer := time.AfterFunc(d, func() {
		w.mu.Lock()
		// a replaced or cancelled timer may still fire once Stop lost the race
		e, ok := w.entries[key]
		if !ok || e.gen != gen {
			w.mu.Unlock()
			return
		}
		delete(w.entries, key)
		w.mu.Unlock()
		fn()
	})
	w.entries[key] = wallEntry{timer: timer, gen: gen}
}

func (w *Wall) Cancel(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(w.entries, key)
	return true
}

func (w *Wall) Pending(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.entries[key]
	return ok
}

func (w *Wall) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for key, e := range w.entries {
		e.timer.Stop()
		delete(w.entries, key)
	}
}
