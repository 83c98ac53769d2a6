package cart

import (
	"testing"

	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func item(id int64, price string) models.MenuItem {
	return models.MenuItem{
		ID:       id,
		Name:     "item",
		Category: models.CategoryCoffee,
		Price:    decimal.RequireFromString(price),
	}
}

func TestAdd(t *testing.T) {
	latte := item(2, "4.50")
	mocha := item(5, "5.00")

	t.Run("appends a new line with quantity one", func(t *testing.T) {
		got := Add(nil, latte)
		want := []models.CartItem{{MenuItem: latte, Quantity: 1}}
		if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
			t.Fatalf("unexpected cart (-want +got):\n%s", diff)
		}
	})

	t.Run("increments only the matching line", func(t *testing.T) {
		start := []models.CartItem{
			{MenuItem: latte, Quantity: 1},
			{MenuItem: mocha, Quantity: 3},
		}
		got := Add(start, latte)
		want := []models.CartItem{
			{MenuItem: latte, Quantity: 2},
			{MenuItem: mocha, Quantity: 3},
		}
		if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
			t.Fatalf("unexpected cart (-want +got):\n%s", diff)
		}
		if start[0].Quantity != 1 {
			t.Fatalf("input cart was mutated")
		}
	})
}

func TestUpdateQuantity(t *testing.T) {
	a, b, c := item(1, "3.00"), item(2, "4.50"), item(3, "4.25")
	start := []models.CartItem{
		{MenuItem: a, Quantity: 1},
		{MenuItem: b, Quantity: 2},
		{MenuItem: c, Quantity: 1},
	}

	t.Run("zero removes exactly that line and keeps order", func(t *testing.T) {
		got := UpdateQuantity(start, 2, 0)
		want := []models.CartItem{
			{MenuItem: a, Quantity: 1},
			{MenuItem: c, Quantity: 1},
		}
		if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
			t.Fatalf("unexpected cart (-want +got):\n%s", diff)
		}
	})

	t.Run("negative removes the line", func(t *testing.T) {
		got := UpdateQuantity(start, 1, -4)
		if len(got) != 2 || got[0].ID != 2 {
			t.Fatalf("expected line 1 removed, got %+v", got)
		}
	})

	t.Run("positive sets an absolute quantity", func(t *testing.T) {
		got := UpdateQuantity(start, 2, 7)
		if got[1].Quantity != 7 {
			t.Fatalf("expected quantity 7, got %d", got[1].Quantity)
		}
		if start[1].Quantity != 2 {
			t.Fatalf("input cart was mutated")
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		got := UpdateQuantity(start, 99, 0)
		if diff := cmp.Diff(start, got, decimalEqual); diff != "" {
			t.Fatalf("expected unchanged cart (-want +got):\n%s", diff)
		}
	})
}

func TestTotal(t *testing.T) {
	t.Run("price times quantity", func(t *testing.T) {
		got := Total([]models.CartItem{{MenuItem: item(2, "4.5"), Quantity: 2}})
		if !got.Equal(decimal.RequireFromString("9.00")) {
			t.Fatalf("expected 9.00, got %s", got)
		}
	})

	t.Run("independent of line order", func(t *testing.T) {
		lines := []models.CartItem{
			{MenuItem: item(1, "3.00"), Quantity: 1},
			{MenuItem: item(2, "4.50"), Quantity: 2},
			{MenuItem: item(9, "2.50"), Quantity: 5},
		}
		reversed := []models.CartItem{lines[2], lines[1], lines[0]}
		if !Total(lines).Equal(Total(reversed)) {
			t.Fatalf("totals differ: %s vs %s", Total(lines), Total(reversed))
		}
		if !Total(lines).Equal(decimal.RequireFromString("24.50")) {
			t.Fatalf("expected 24.50, got %s", Total(lines))
		}
	})

	t.Run("empty cart is zero", func(t *testing.T) {
		if !Total(nil).IsZero() {
			t.Fatalf("expected zero total")
		}
	})

	t.Run("no binary float drift", func(t *testing.T) {
		got := Total([]models.CartItem{
			{MenuItem: item(1, "0.10"), Quantity: 1},
			{MenuItem: item(2, "0.20"), Quantity: 1},
		})
		if got.StringFixed(2) != "0.30" || !got.Equal(decimal.RequireFromString("0.3")) {
			t.Fatalf("expected exactly 0.30, got %s", got)
		}
	})
}

func TestCount(t *testing.T) {
	lines := []models.CartItem{
		{MenuItem: item(1, "3.00"), Quantity: 2},
		{MenuItem: item(2, "4.50"), Quantity: 3},
	}
	if got := Count(lines); got != 5 {
		t.Fatalf("expected 5 units, got %d", got)
	}
}
