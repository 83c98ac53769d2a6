// Package cart holds the pure cart reducer. Every function returns a new
// slice and leaves its input untouched.
package cart

import (
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/shopspring/decimal"
)

// Add increments the line for item.ID, or appends a new line with quantity 1.
func Add(cart []models.CartItem, item models.MenuItem) []models.CartItem {
	next := make([]models.CartItem, 0, len(cart)+1)
	found := false
	for _, line := range cart {
		if line.ID == item.ID {
			line.Quantity++
			found = true
		}
		next = append(next, line)
	}
	if !found {
		next = append(next, models.CartItem{MenuItem: item, Quantity: 1})
	}
	return next
}

// UpdateQuantity sets the quantity of the line for itemID. A quantity of zero
// or less removes the line. Unknown ids leave the cart as it was.
func UpdateQuantity(cart []models.CartItem, itemID int64, quantity int) []models.CartItem {
	next := make([]models.CartItem, 0, len(cart))
	for _, line := range cart {
		if line.ID == itemID {
			if quantity <= 0 {
				continue
			}
			line.Quantity = quantity
		}
		next = append(next, line)
	}
	return next
}

// LineTotal is price x quantity for one line.
func LineTotal(line models.CartItem) decimal.Decimal {
	return line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// Total sums price x quantity over every line, unrounded.
func Total(cart []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range cart {
		total = total.Add(LineTotal(line))
	}
	return total
}

// Count returns the number of units in the cart.
func Count(cart []models.CartItem) int {
	n := 0
	for _, line := range cart {
		n += line.Quantity
	}
	return n
}

// Snapshot returns an independent copy of the cart.
func Snapshot(cart []models.CartItem) []models.CartItem {
	if cart == nil {
		return nil
	}
	next := make([]models.CartItem, len(cart))
	copy(next, cart)
	return next
}
