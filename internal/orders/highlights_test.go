package orders

import (
	"fmt"
	"testing"
	"time"

	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/chrisdamba/cafeorder/internal/schedule"
)

func TestDiff(t *testing.T) {
	prev := []models.Order{
		order("a", models.OrderStatusPending, "1", now),
		order("b", models.OrderStatusPending, "1", now),
	}
	next := []models.Order{
		order("c", models.OrderStatusPending, "1", now),
		order("a", models.OrderStatusInProgress, "1", now),
		order("b", models.OrderStatusPending, "1", now),
	}
	added, changed := Diff(prev, next)
	if fmt.Sprint(added) != "[c]" || fmt.Sprint(changed) != "[a]" {
		t.Fatalf("expected added [c] changed [a], got %v %v", added, changed)
	}
}

func TestHighlights(t *testing.T) {
	base := []models.Order{order("a", models.OrderStatusPending, "1", now)}

	t.Run("first observation is a baseline", func(t *testing.T) {
		v := schedule.NewVirtual(now)
		h := NewHighlights(v, 0, 0)
		h.Observe(base)
		if h.IsNew("a") || len(h.New()) != 0 {
			t.Fatalf("baseline must not mark anything")
		}
	})

	t.Run("new mark expires after five seconds", func(t *testing.T) {
		v := schedule.NewVirtual(now)
		h := NewHighlights(v, 0, 0)
		h.Observe(base)
		h.Observe(append([]models.Order{order("b", models.OrderStatusPending, "1", now)}, base...))

		if !h.IsNew("b") {
			t.Fatalf("expected b marked new")
		}
		if h.IsNew("a") {
			t.Fatalf("a must not be marked")
		}
		v.Advance(4999 * time.Millisecond)
		if !h.IsNew("b") {
			t.Fatalf("expected b still new before the window ends")
		}
		v.Advance(time.Millisecond)
		if h.IsNew("b") {
			t.Fatalf("expected b cleared after 5s")
		}
	})

	t.Run("updated mark expires after three seconds", func(t *testing.T) {
		v := schedule.NewVirtual(now)
		h := NewHighlights(v, 0, 0)
		h.Observe(base)
		h.Observe([]models.Order{order("a", models.OrderStatusInProgress, "1", now)})

		if !h.IsUpdated("a") || h.IsNew("a") {
			t.Fatalf("expected a marked updated only")
		}
		v.Advance(3 * time.Second)
		if h.IsUpdated("a") {
			t.Fatalf("expected a cleared after 3s")
		}
	})

	t.Run("marks expire independently", func(t *testing.T) {
		v := schedule.NewVirtual(now)
		h := NewHighlights(v, 0, 0)
		h.Observe(nil)

		b := order("b", models.OrderStatusPending, "1", now)
		h.Observe([]models.Order{b})
		v.Advance(2 * time.Second)
		c := order("c", models.OrderStatusPending, "1", now)
		h.Observe([]models.Order{c, b})

		v.Advance(3 * time.Second)
		if h.IsNew("b") {
			t.Fatalf("expected b expired at 5s")
		}
		if !h.IsNew("c") {
			t.Fatalf("clearing b must not clear c")
		}
		v.Advance(2 * time.Second)
		if h.IsNew("c") {
			t.Fatalf("expected c expired at 7s")
		}
	})

	t.Run("a repeated change restarts only that window", func(t *testing.T) {
		v := schedule.NewVirtual(now)
		h := NewHighlights(v, 0, 0)
		h.Observe(base)
		h.Observe([]models.Order{order("a", models.OrderStatusInProgress, "1", now)})
		v.Advance(2 * time.Second)
		h.Observe([]models.Order{order("a", models.OrderStatusReady, "1", now)})

		v.Advance(2 * time.Second)
		if !h.IsUpdated("a") {
			t.Fatalf("expected the second change to keep a marked")
		}
		v.Advance(time.Second)
		if h.IsUpdated("a") {
			t.Fatalf("expected a cleared 3s after the second change")
		}
	})

	t.Run("close cancels pending expiries", func(t *testing.T) {
		v := schedule.NewVirtual(now)
		h := NewHighlights(v, 0, 0)
		h.Observe(nil)
		h.Observe(base)
		h.Close()
		if h.IsNew("a") || v.Len() != 0 {
			t.Fatalf("expected marks and timers cleared")
		}
	})
}

// heldScheduler keeps every scheduled fn so a test can fire a replaced one,
// the way a wall-clock timer that already fired can still run after AfterFunc.
type heldScheduler struct {
	fns []func()
}

func (s *heldScheduler) AfterFunc(_ string, _ time.Duration, fn func()) {
	s.fns = append(s.fns, fn)
}

func (s *heldScheduler) Cancel(string) bool  { return false }
func (s *heldScheduler) Pending(string) bool { return false }
func (s *heldScheduler) Stop()               {}

func TestHighlightsStaleExpiry(t *testing.T) {
	s := &heldScheduler{}
	h := NewHighlights(s, 0, 0)
	h.Observe(nil)

	a := order("a", models.OrderStatusPending, "1", now)
	h.Observe([]models.Order{a})
	h.Observe(nil)
	h.Observe([]models.Order{a})
	if len(s.fns) != 2 {
		t.Fatalf("expected two expiries scheduled, got %d", len(s.fns))
	}

	s.fns[0]()
	if !h.IsNew("a") {
		t.Fatalf("expected the replaced expiry to leave a marked")
	}
	s.fns[1]()
	if h.IsNew("a") {
		t.Fatalf("expected the current expiry to clear a")
	}
}

func TestTracker(t *testing.T) {
	t.Run("releases a completed order after the window", func(t *testing.T) {
		v := schedule.NewVirtual(now)
		var released []string
		tr := NewTracker(v, 0, func(id string) { released = append(released, id) })
		tr.Track("a")

		tr.Observe([]models.Order{order("a", models.OrderStatusReady, "1", now)})
		v.Advance(time.Minute)
		if tr.Current() != "a" {
			t.Fatalf("non-terminal order must stay tracked")
		}

		tr.Observe([]models.Order{order("a", models.OrderStatusCompleted, "1", now)})
		v.Advance(29 * time.Second)
		if tr.Current() != "a" {
			t.Fatalf("expected a tracked until the window ends")
		}
		v.Advance(time.Second)
		if tr.Current() != "" {
			t.Fatalf("expected tracking released, got %q", tr.Current())
		}
		if fmt.Sprint(released) != "[a]" {
			t.Fatalf("expected release callback for a, got %v", released)
		}
	})

	t.Run("a newer tracked order is not released by the old timer", func(t *testing.T) {
		v := schedule.NewVirtual(now)
		tr := NewTracker(v, 30*time.Second, nil)
		tr.Track("a")
		tr.Observe([]models.Order{order("a", models.OrderStatusCompleted, "1", now)})

		v.Advance(10 * time.Second)
		tr.Track("b")
		tr.Observe([]models.Order{
			order("b", models.OrderStatusPending, "1", now),
			order("a", models.OrderStatusCompleted, "1", now),
		})

		v.Advance(time.Minute)
		if tr.Current() != "b" {
			t.Fatalf("expected b still tracked, got %q", tr.Current())
		}
	})

	t.Run("cancelled orders are released too", func(t *testing.T) {
		v := schedule.NewVirtual(now)
		tr := NewTracker(v, 0, nil)
		tr.Track("a")
		tr.Observe([]models.Order{order("a", models.OrderStatusCancelled, "1", now)})
		v.Advance(TrackingReleaseWindow)
		if tr.Current() != "" {
			t.Fatalf("expected release after cancellation")
		}
	})

	t.Run("manual release cancels the timer", func(t *testing.T) {
		v := schedule.NewVirtual(now)
		tr := NewTracker(v, 0, func(string) { t.Fatalf("callback must not run after manual release") })
		tr.Track("a")
		tr.Observe([]models.Order{order("a", models.OrderStatusCompleted, "1", now)})
		tr.Release()
		v.Advance(time.Minute)
		if v.Len() != 0 {
			t.Fatalf("expected no pending timers")
		}
	})
}
