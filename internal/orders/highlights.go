package orders

import (
	"sort"
	"sync"
	"time"

	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/chrisdamba/cafeorder/internal/schedule"
)

const (
	NewHighlightWindow     = 5 * time.Second
	UpdatedHighlightWindow = 3 * time.Second
)

// Diff compares two snapshots by id. added holds ids only present in next,
// changed holds ids present in both whose status differs.
func Diff(prev, next []models.Order) (added, changed []string) {
	before := make(map[string]models.OrderStatus, len(prev))
	for _, o := range prev {
		before[o.ID] = o.Status
	}
	for _, o := range next {
		status, ok := before[o.ID]
		switch {
		case !ok:
			added = append(added, o.ID)
		case status != o.Status:
			changed = append(changed, o.ID)
		}
	}
	return added, changed
}

// Highlights tracks which orders were recently added or changed. Each mark
// expires on its own timer; marking an id again restarts only that id's window.
type Highlights struct {
	mu            sync.Mutex
	sched         schedule.Scheduler
	newWindow     time.Duration
	updatedWindow time.Duration
	prev          []models.Order
	seeded        bool
	gen           uint64
	newIDs        map[string]uint64
	updatedIDs    map[string]uint64
}

func NewHighlights(sched schedule.Scheduler, newWindow, updatedWindow time.Duration) *Highlights {
	if newWindow <= 0 {
		newWindow = NewHighlightWindow
	}
	if updatedWindow <= 0 {
		updatedWindow = UpdatedHighlightWindow
	}
	return &Highlights{
		sched:         sched,
		newWindow:     newWindow,
		updatedWindow: updatedWindow,
		newIDs:        make(map[string]uint64),
		updatedIDs:    make(map[string]uint64),
	}
}

// Observe diffs list against the previous snapshot and marks the changes.
// The first snapshot only sets the baseline.
func (h *Highlights) Observe(list []models.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()

	snapshot := make([]models.Order, len(list))
	copy(snapshot, list)
	if !h.seeded {
		h.prev = snapshot
		h.seeded = true
		return
	}

	added, changed := Diff(h.prev, snapshot)
	h.prev = snapshot
	for _, id := range added {
		h.mark(h.newIDs, "new:", id, h.newWindow)
	}
	for _, id := range changed {
		h.mark(h.updatedIDs, "updated:", id, h.updatedWindow)
	}
}

// mark stamps id with a fresh generation. An expiry only clears the id while
// it still carries the generation that scheduled it.
func (h *Highlights) mark(set map[string]uint64, prefix, id string, window time.Duration) {
	h.gen++
	gen := h.gen
	set[id] = gen
	h.sched.AfterFunc(prefix+id, window, func() {
		h.mu.Lock()
		if set[id] == gen {
			delete(set, id)
		}
		h.mu.Unlock()
	})
}

func (h *Highlights) IsNew(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.newIDs[id]
	return ok
}

func (h *Highlights) IsUpdated(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.updatedIDs[id]
	return ok
}

// New returns the ids currently marked new, sorted.
func (h *Highlights) New() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return sortedKeys(h.newIDs)
}

// Updated returns the ids currently marked updated, sorted.
func (h *Highlights) Updated() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return sortedKeys(h.updatedIDs)
}

// Close cancels every pending expiry and clears the marks.
func (h *Highlights) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id := range h.newIDs {
		h.sched.Cancel("new:" + id)
		delete(h.newIDs, id)
	}
	for id := range h.updatedIDs {
		h.sched.Cancel("updated:" + id)
		delete(h.updatedIDs, id)
	}
}

func sortedKeys(set map[string]uint64) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
