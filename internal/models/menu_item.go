package models

import "github.com/shopspring/decimal"

type MenuItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

// CartItem is a menu item snapshot with the quantity selected.
type CartItem struct {
	MenuItem
	Quantity int `json:"quantity"`
}
