// Package orders is the order lifecycle engine: placement, status
// transitions and the derived views over the canonical order list.
package orders

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/cafeorder/internal/cart"
	"github.com/chrisdamba/cafeorder/internal/models"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrOrderNotFound        = errors.New("order not found")
	ErrIllegalTransition    = errors.New("illegal status transition")
	ErrDuplicateOrderID     = errors.New("order id already in use")
)

// PlaceOrder builds a Pending order from a snapshot of items and prepends it
// to list. On rejection list is returned as it was and no order is created.
// Clearing the cart is the caller's job.
func PlaceOrder(list []models.Order, items []models.CartItem, customerName, notes, id string, now time.Time) ([]models.Order, models.Order, error) {
	if len(items) == 0 {
		return list, models.Order{}, ErrEmptyCart
	}
	name := strings.TrimSpace(customerName)
	if name == "" {
		return list, models.Order{}, ErrCustomerNameRequired
	}
	if indexOf(list, id) >= 0 {
		return list, models.Order{}, fmt.Errorf("%w: %s", ErrDuplicateOrderID, id)
	}

	order := models.Order{
		ID:           id,
		CustomerName: name,
		Items:        cart.Snapshot(items),
		Total:        cart.Total(items),
		Status:       models.OrderStatusPending,
		CreatedAt:    now,
		Notes:        strings.TrimSpace(notes),
	}

	next := make([]models.Order, 0, len(list)+1)
	next = append(next, order)
	next = append(next, list...)
	return next, order, nil
}

// SetStatus moves order id to status to. Unknown ids and illegal moves leave
// the list untouched and return an error.
func SetStatus(list []models.Order, id string, to models.OrderStatus) ([]models.Order, models.Order, error) {
	idx := indexOf(list, id)
	if idx < 0 {
		return list, models.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	current := list[idx]
	if !CanTransition(current.Status, to) {
		return list, current, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current.Status, to)
	}

	next := make([]models.Order, len(list))
	copy(next, list)
	next[idx].Status = to
	return next, next[idx], nil
}

// Advance moves order id one step forward.
func Advance(list []models.Order, id string) ([]models.Order, models.Order, error) {
	idx := indexOf(list, id)
	if idx < 0 {
		return list, models.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	to, ok := Next(list[idx].Status)
	if !ok {
		return list, list[idx], fmt.Errorf("%w: %s has no next status", ErrIllegalTransition, list[idx].Status)
	}
	return SetStatus(list, id, to)
}

// Find returns the order with id, if list holds one.
func Find(list []models.Order, id string) (models.Order, bool) {
	if idx := indexOf(list, id); idx >= 0 {
		return list[idx], true
	}
	return models.Order{}, false
}

func indexOf(list []models.Order, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// ShortID is the display form of an order id.
func ShortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}

// MinutesAgo is the whole number of minutes since createdAt, rounded.
func MinutesAgo(createdAt, now time.Time) int {
	return int(now.Sub(createdAt).Round(time.Minute) / time.Minute)
}
