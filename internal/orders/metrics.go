package orders

import (
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/shopspring/decimal"
)

// Metrics summarises list. Revenue only counts completed orders.
func Metrics(list []models.Order) models.OrderMetrics {
	m := models.OrderMetrics{
		TotalOrders:  len(list),
		ByStatus:     make(map[models.OrderStatus]int),
		Revenue:      decimal.Zero,
		PopularItems: make(map[string]int),
	}
	completed := 0
	for _, o := range list {
		m.ByStatus[o.Status]++
		if o.Status != models.OrderStatusCompleted {
			continue
		}
		completed++
		m.Revenue = m.Revenue.Add(o.Total)
		for _, item := range o.Items {
			m.PopularItems[item.Name] += item.Quantity
		}
	}
	if completed > 0 {
		m.AvgOrderValue = m.Revenue.Div(decimal.NewFromInt(int64(completed))).Round(2)
	}
	if len(list) > 0 {
		m.CompletionRate = float64(completed) / float64(len(list))
	}
	return m
}
