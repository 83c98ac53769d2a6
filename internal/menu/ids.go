package menu

import (
	"sync"

	"github.com/chrisdamba/cafeorder/internal/clock"
)

// IDGenerator hands out millisecond-derived ids that strictly increase, even
// when the clock stalls or steps backwards.
type IDGenerator struct {
	mu    sync.Mutex
	clock clock.Clock
	last  int64
}

// NewIDGenerator returns a generator whose ids are all greater than floor.
func NewIDGenerator(clk clock.Clock, floor int64) *IDGenerator {
	return &IDGenerator{clock: clk, last: floor}
}

func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.clock.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
