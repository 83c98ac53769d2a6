package schedule

import (
	"container/heap"
	"sync"
	"time"
)

// task is a scheduled callback on the virtual timeline
type task struct {
	at  time.Time
	seq uint64
	key string
	fn  func()
}

// taskHeap implements heap.Interface ordered by due time, then scheduling order
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x interface{}) {
	*h = append(*h, x.(*task))
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// Virtual is a deterministic scheduler driven by Advance. It also serves as
// the clock for code running on the same timeline.
type Virtual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks taskHeap
	live  map[string]*task
}

func NewVirtual(start time.Time) *Virtual {
	return &Virtual{
		now:  start.UTC(),
		live: make(map[string]*task),
	}
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) AfterFunc(key string, d time.Duration, fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	t := &task{at: v.now.Add(d), seq: v.seq, key: key, fn: fn}
	// replaced tasks stay in the heap and are skipped when popped
	v.live[key] = t
	heap.Push(&v.tasks, t)
}

func (v *Virtual) Cancel(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.live[key]; !ok {
		return false
	}
	delete(v.live, key)
	return true
}

func (v *Virtual) Pending(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.live[key]
	return ok
}

func (v *Virtual) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.live = make(map[string]*task)
	v.tasks = nil
}

// Len returns the number of live pending tasks.
func (v *Virtual) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.live)
}

// Advance moves the clock forward by d, running every task that falls due in
// time order. Tasks scheduled by a running task are honoured if they fall due
// within the same window.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		fn, ok := v.popDue(target)
		if !ok {
			break
		}
		fn()
	}

	v.mu.Lock()
	if v.now.Before(target) {
		v.now = target
	}
	v.mu.Unlock()
}

func (v *Virtual) popDue(target time.Time) (func(), bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for len(v.tasks) > 0 {
		next := v.tasks[0]
		if next.at.After(target) {
			return nil, false
		}
		heap.Pop(&v.tasks)
		if v.live[next.key] != next {
			continue
		}
		delete(v.live, next.key)
		if next.at.After(v.now) {
			v.now = next.at
		}
		return next.fn, true
	}
	return nil, false
}
