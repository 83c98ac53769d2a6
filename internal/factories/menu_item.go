package factories

import (
	"math/rand"

	"github.com/chrisdamba/cafeorder/internal/menu"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
)

var (
	coffeeNames  = []string{"Flat White", "Cortado", "Macchiato", "Affogato", "Cold Brew", "Irish Coffee", "Vienna Coffee", "Ristretto"}
	dessertNames = []string{"Tiramisu", "Brownie", "Lemon Tart", "Cinnamon Roll", "Eclair", "Panna Cotta", "Apple Strudel", "Carrot Cake"}
)

type MenuItemFactory struct {
	fake faker.Faker
}

func NewMenuItemFactory(seed int64) *MenuItemFactory {
	return &MenuItemFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

// CreateDraft returns a valid draft: coffees cost 2 to 6, desserts 3 to 8.
func (mf *MenuItemFactory) CreateDraft() menu.NewItemDraft {
	draft := menu.NewItemDraft{ImageURL: menu.DefaultImageURL}
	if mf.fake.Bool() {
		draft.Category = models.CategoryCoffee
		draft.Name = mf.fake.RandomStringElement(coffeeNames)
		draft.Price = mf.price(2, 6)
	} else {
		draft.Category = models.CategoryDessert
		draft.Name = mf.fake.RandomStringElement(dessertNames)
		draft.Price = mf.price(3, 8)
	}
	return draft
}

// price is rounded to a quarter.
func (mf *MenuItemFactory) price(lo, hi int) decimal.Decimal {
	quarters := mf.fake.IntBetween(lo*4, hi*4)
	return decimal.New(int64(quarters)*25, -2)
}
