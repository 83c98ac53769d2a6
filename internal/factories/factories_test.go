package factories

import (
	"testing"

	"github.com/chrisdamba/cafeorder/internal/menu"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestCustomerFactoryIsDeterministic(t *testing.T) {
	a, b := NewCustomerFactory(7), NewCustomerFactory(7)
	for i := 0; i < 20; i++ {
		ca, cb := a.CreateCustomer(), b.CreateCustomer()
		if diff := cmp.Diff(ca, cb); diff != "" {
			t.Fatalf("customer %d differs (-a +b):\n%s", i, diff)
		}
		if ca.Name == "" {
			t.Fatalf("customer %d has no name", i)
		}
	}
}

func TestCartSize(t *testing.T) {
	cf := NewCustomerFactory(1)
	for i := 0; i < 50; i++ {
		lines, quantities := cf.CartSize(4)
		if lines < 1 || lines > 4 {
			t.Fatalf("lines out of range: %d", lines)
		}
		if len(quantities) != lines {
			t.Fatalf("expected %d quantities, got %d", lines, len(quantities))
		}
		for _, q := range quantities {
			if q < 1 || q > 3 {
				t.Fatalf("quantity out of range: %d", q)
			}
		}
	}
	if lines, _ := cf.CartSize(0); lines != 1 {
		t.Errorf("CartSize(0) should give one line, got %d", lines)
	}
}

func TestPickDistinct(t *testing.T) {
	cf := NewCustomerFactory(5)
	for i := 0; i < 50; i++ {
		picked := cf.PickDistinct(10, 4)
		if len(picked) != 4 {
			t.Fatalf("expected 4 indexes, got %v", picked)
		}
		seen := make(map[int]bool)
		for _, idx := range picked {
			if idx < 0 || idx >= 10 {
				t.Fatalf("index out of range: %d", idx)
			}
			if seen[idx] {
				t.Fatalf("index %d picked twice in %v", idx, picked)
			}
			seen[idx] = true
		}
	}
	if got := cf.PickDistinct(2, 5); len(got) != 2 {
		t.Errorf("PickDistinct(2, 5) should cap at 2, got %v", got)
	}
	if got := cf.PickDistinct(0, 3); got != nil {
		t.Errorf("PickDistinct(0, 3) should be empty, got %v", got)
	}
}

func TestCreateDraftPassesValidation(t *testing.T) {
	mf := NewMenuItemFactory(3)
	for i := 0; i < 30; i++ {
		draft := mf.CreateDraft()
		if err := menu.ValidateDraft(draft); err != nil {
			t.Fatalf("draft %+v invalid: %v", draft, err)
		}
		if draft.Category != models.CategoryCoffee && draft.Category != models.CategoryDessert {
			t.Fatalf("unexpected category %q", draft.Category)
		}
		if !draft.Price.Mod(decimal.RequireFromString("0.25")).IsZero() {
			t.Fatalf("price %s is not a multiple of 0.25", draft.Price)
		}
	}
}
