package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	Items        []CartItem      `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	Notes        string          `json:"notes,omitempty"`
}

// ItemCount returns the number of units across all lines.
func (o Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// OrderMetrics summarises an order list, used by the simulation report.
type OrderMetrics struct {
	TotalOrders    int
	ByStatus       map[OrderStatus]int
	Revenue        decimal.Decimal // completed orders only
	AvgOrderValue  decimal.Decimal
	PopularItems   map[string]int // item name -> units ordered
	CompletionRate float64
}
