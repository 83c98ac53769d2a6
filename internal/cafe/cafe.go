// Package cafe is the application-state container. It owns the role, the
// catalog, the canonical order list, the cart and the customer's tracking
// state, and routes every mutation through the engines.
package cafe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chrisdamba/cafeorder/internal/clock"
	"github.com/chrisdamba/cafeorder/internal/events"
	"github.com/chrisdamba/cafeorder/internal/menu"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/chrisdamba/cafeorder/internal/orders"
	"github.com/chrisdamba/cafeorder/internal/schedule"
	"github.com/chrisdamba/cafeorder/internal/store"
	"github.com/lucsky/cuid"
	"github.com/rs/zerolog"
)

var (
	ErrItemNotFound = errors.New("menu item not found")
	ErrInvalidRole  = errors.New("role must be CUSTOMER or ADMIN")
)

type Options struct {
	Store     store.Store
	Clock     clock.Clock
	Scheduler schedule.Scheduler
	Publisher *events.Publisher
	Logger    zerolog.Logger
	Timing    models.TimingConfig

	// PastOrdersLimit caps PastOrders; zero means orders.PastOrderLimit.
	PastOrdersLimit int

	// OrderIDs generates order ids; defaults to cuid.New.
	OrderIDs func() string
}

type Cafe struct {
	mu         sync.Mutex
	store      store.Store
	clock      clock.Clock
	publisher  *events.Publisher
	logger     zerolog.Logger
	menuIDs    *menu.IDGenerator
	orderIDs   func() string
	delay      time.Duration
	pastLimit  int
	role       models.Role
	catalog    []models.MenuItem
	orders     []models.Order
	cart       []models.CartItem
	myOrders   []string
	highlights *orders.Highlights
	tracker    *orders.Tracker
}

// New loads the persisted state from opts.Store. Missing or unreadable
// slices start from their defaults.
func New(ctx context.Context, opts Options) (*Cafe, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("cafe requires a store")
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.NewWall()
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NewPublisher(nil, opts.Logger)
	}
	if opts.OrderIDs == nil {
		opts.OrderIDs = cuid.New
	}
	if opts.PastOrdersLimit == 0 {
		opts.PastOrdersLimit = orders.PastOrderLimit
	}

	c := &Cafe{
		store:     opts.Store,
		clock:     opts.Clock,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		orderIDs:  opts.OrderIDs,
		delay:     opts.Timing.SubmitDelay,
		pastLimit: opts.PastOrdersLimit,
	}

	c.role = store.Load(ctx, c.store, models.KeyRole, models.RoleCustomer)
	c.catalog = store.Load(ctx, c.store, models.KeyMenu, menu.DefaultCatalog())
	c.orders = store.Load(ctx, c.store, models.KeyOrders, []models.Order{})
	c.myOrders = store.Load(ctx, c.store, models.KeyMyOrders, []string{})
	lastOrder := store.Load(ctx, c.store, models.KeyLastOrder, "")

	c.menuIDs = menu.NewIDGenerator(c.clock, menu.MaxID(c.catalog))
	c.highlights = orders.NewHighlights(opts.Scheduler, opts.Timing.NewHighlight, opts.Timing.UpdatedHighlight)
	c.highlights.Observe(c.orders)
	c.tracker = orders.NewTracker(opts.Scheduler, opts.Timing.TrackingRelease, c.trackingReleased)
	if lastOrder != "" {
		c.tracker.Track(lastOrder)
		c.tracker.Observe(c.orders)
	}

	c.logger.Debug().
		Int("menu_items", len(c.catalog)).
		Int("orders", len(c.orders)).
		Str("role", string(c.role)).
		Msg("cafe state loaded")
	return c, nil
}

// Close cancels pending highlight and tracking timers. The store and the
// publisher belong to the caller.
func (c *Cafe) Close() {
	c.highlights.Close()
	c.tracker.Stop()
}

func (c *Cafe) Role() models.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

func (c *Cafe) SetRole(ctx context.Context, role models.Role) error {
	if role != models.RoleCustomer && role != models.RoleAdmin {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.role = role
	c.persist(ctx, models.KeyRole, c.role)
	return nil
}

// Refresh reloads the order list from the store, as another actor may have
// changed it, and feeds it to the highlight and tracking observers.
func (c *Cafe) Refresh(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = store.Load(ctx, c.store, models.KeyOrders, c.orders)
	c.observe()
}

func (c *Cafe) observe() {
	c.highlights.Observe(c.orders)
	c.tracker.Observe(c.orders)
}

// persist writes one state slice. Failures are logged, never returned.
func (c *Cafe) persist(ctx context.Context, key string, v interface{}) {
	if err := store.Save(ctx, c.store, key, v); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to persist state")
	}
}

func (c *Cafe) trackingReleased(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A new order may have been tracked between the release and this call.
	if c.tracker.Current() != "" {
		return
	}
	c.persist(context.Background(), models.KeyLastOrder, "")
	c.logger.Debug().Str("order_id", id).Msg("order tracking released")
}

func (c *Cafe) now() time.Time {
	return c.clock.Now()
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
