package cafe

import (
	"context"
	"time"

	"github.com/chrisdamba/cafeorder/internal/cart"
	"github.com/chrisdamba/cafeorder/internal/menu"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/chrisdamba/cafeorder/internal/orders"
	"github.com/shopspring/decimal"
)

const maxIDAttempts = 100

func (c *Cafe) Cart() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cart.Snapshot(c.cart)
}

func (c *Cafe) CartTotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cart.Total(c.cart)
}

// AddToCart adds one unit of catalog item id.
func (c *Cafe) AddToCart(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := menu.Find(c.catalog, id)
	if !ok {
		return ErrItemNotFound
	}
	c.cart = cart.Add(c.cart, item)
	return nil
}

func (c *Cafe) UpdateCartQuantity(id int64, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart = cart.UpdateQuantity(c.cart, id, quantity)
}

// PlaceOrder turns the cart into a Pending order after the submission delay.
// A cancelled ctx during the delay abandons the order and keeps the cart.
func (c *Cafe) PlaceOrder(ctx context.Context, customerName, notes string) (models.Order, error) {
	c.mu.Lock()
	empty := len(c.cart) == 0
	c.mu.Unlock()
	if empty {
		return models.Order{}, orders.ErrEmptyCart
	}
	if blank(customerName) {
		return models.Order{}, orders.ErrCustomerNameRequired
	}

	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return models.Order{}, ctx.Err()
		case <-timer.C:
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id, err := c.nextOrderID()
	if err != nil {
		return models.Order{}, err
	}
	next, order, err := orders.PlaceOrder(c.orders, c.cart, customerName, notes, id, c.now())
	if err != nil {
		return models.Order{}, err
	}
	c.orders = next
	c.cart = nil
	c.myOrders = append(c.myOrders, order.ID)
	c.tracker.Track(order.ID)
	c.observe()

	c.persist(ctx, models.KeyOrders, c.orders)
	c.persist(ctx, models.KeyMyOrders, c.myOrders)
	c.persist(ctx, models.KeyLastOrder, order.ID)
	c.publisher.OrderPlaced(order, order.CreatedAt)
	c.logger.Info().
		Str("order_id", order.ID).
		Str("customer", order.CustomerName).
		Str("total", order.Total.StringFixed(2)).
		Int("items", order.ItemCount()).
		Msg("order placed")
	return order, nil
}

// nextOrderID draws ids until one is not already in the list. Callers hold c.mu.
func (c *Cafe) nextOrderID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := c.orderIDs()
		if _, used := orders.Find(c.orders, id); !used {
			return id, nil
		}
		c.logger.Debug().Str("order_id", id).Msg("order id in use, drawing another")
	}
	return "", orders.ErrDuplicateOrderID
}

// SetStatus moves an order to status to. Unknown ids and illegal moves are
// rejected and leave every order as it was.
func (c *Cafe) SetStatus(ctx context.Context, id string, to models.OrderStatus) (models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, order, err := orders.SetStatus(c.orders, id, to)
	if err != nil {
		c.logger.Debug().Err(err).Str("order_id", id).Msg("status change rejected")
		return order, err
	}
	return c.applyStatus(ctx, next, order), nil
}

// AdvanceOrder moves an order to its single forward status.
func (c *Cafe) AdvanceOrder(ctx context.Context, id string) (models.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, order, err := orders.Advance(c.orders, id)
	if err != nil {
		return order, err
	}
	return c.applyStatus(ctx, next, order), nil
}

func (c *Cafe) CancelOrder(ctx context.Context, id string) (models.Order, error) {
	return c.SetStatus(ctx, id, models.OrderStatusCancelled)
}

func (c *Cafe) applyStatus(ctx context.Context, next []models.Order, updated models.Order) models.Order {
	prev, _ := orders.Find(c.orders, updated.ID)
	c.orders = next
	c.observe()
	c.persist(ctx, models.KeyOrders, c.orders)
	c.publisher.StatusChanged(updated, prev.Status, c.now())
	c.logger.Info().
		Str("order_id", updated.ID).
		Str("from", string(prev.Status)).
		Str("to", string(updated.Status)).
		Msg("order status changed")
	return updated
}

// Orders returns the canonical list, newest first.
func (c *Cafe) Orders() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Order(nil), c.orders...)
}

func (c *Cafe) Order(id string) (models.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return orders.Find(c.orders, id)
}

func (c *Cafe) ActiveOrders(opt orders.SortOption) []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return orders.Sorted(orders.Active(c.orders), opt)
}

// PastOrders returns terminal orders, sorted then capped.
func (c *Cafe) PastOrders(opt orders.SortOption) []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return orders.RecentPast(c.orders, opt, c.pastLimit)
}

// MyOrders returns the orders placed from this session, newest first.
func (c *Cafe) MyOrders() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return orders.Sorted(orders.ByIDs(c.orders, c.myOrders), orders.SortNewest)
}

// TrackedOrder returns the order the customer is following, if any.
func (c *Cafe) TrackedOrder() (models.Order, bool) {
	id := c.tracker.Current()
	if id == "" {
		return models.Order{}, false
	}
	return c.Order(id)
}

func (c *Cafe) IsNew(id string) bool {
	return c.highlights.IsNew(id)
}

func (c *Cafe) IsUpdated(id string) bool {
	return c.highlights.IsUpdated(id)
}

func (c *Cafe) NewOrderIDs() []string {
	return c.highlights.New()
}

func (c *Cafe) UpdatedOrderIDs() []string {
	return c.highlights.Updated()
}
