package menu

import (
	"fmt"

	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultImageURL is used for new items created without an image.
const DefaultImageURL = "https://picsum.photos/400/300"

type seed struct {
	id       int64
	name     string
	category models.Category
	price    string
	imageID  int
}

var seedItems = []seed{
	{1, "Espresso", models.CategoryCoffee, "3.00", 225},
	{2, "Latte", models.CategoryCoffee, "4.50", 305},
	{3, "Cappuccino", models.CategoryCoffee, "4.25", 326},
	{4, "Americano", models.CategoryCoffee, "3.50", 431},
	{5, "Mocha", models.CategoryCoffee, "5.00", 488},
	{6, "Croissant", models.CategoryDessert, "3.75", 368},
	{7, "Chocolate Cake", models.CategoryDessert, "5.50", 1074},
	{8, "Cheesecake", models.CategoryDessert, "6.00", 0},
	{9, "Macarons", models.CategoryDessert, "2.50", 163},
	{10, "Tiramisu", models.CategoryDessert, "6.25", 21},
}

// DefaultCatalog returns the menu a fresh cafe starts with.
func DefaultCatalog() []models.MenuItem {
	items := make([]models.MenuItem, 0, len(seedItems))
	for _, s := range seedItems {
		items = append(items, models.MenuItem{
			ID:       s.id,
			Name:     s.name,
			Category: s.category,
			Price:    decimal.RequireFromString(s.price),
			ImageURL: fmt.Sprintf("https://picsum.photos/id/%d/400/300", s.imageID),
		})
	}
	return items
}
