package menu

import (
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/shopspring/decimal"
)

// NewItemDraft is a menu item that has not been given an id yet.
type NewItemDraft struct {
	Name     string
	Category models.Category
	Price    decimal.Decimal
	ImageURL string
}

// ExistingItem wraps a catalog item being edited in place.
type ExistingItem struct {
	Item models.MenuItem
}

// Edit is either a NewItemDraft or an ExistingItem.
type Edit interface {
	isEdit()
}

func (NewItemDraft) isEdit() {}
func (ExistingItem) isEdit() {}

// AddItem gives draft a fresh id and appends it to the catalog.
func AddItem(catalog []models.MenuItem, draft NewItemDraft, ids *IDGenerator) ([]models.MenuItem, models.MenuItem) {
	item := models.MenuItem{
		ID:       ids.Next(),
		Name:     draft.Name,
		Category: draft.Category,
		Price:    draft.Price,
		ImageURL: draft.ImageURL,
	}
	next := make([]models.MenuItem, 0, len(catalog)+1)
	next = append(next, catalog...)
	return append(next, item), item
}

// UpdateItem replaces the entry with the same id. Unknown ids are a no-op.
func UpdateItem(catalog []models.MenuItem, item models.MenuItem) []models.MenuItem {
	next := make([]models.MenuItem, len(catalog))
	copy(next, catalog)
	for i := range next {
		if next[i].ID == item.ID {
			next[i] = item
		}
	}
	return next
}

// DeleteItem removes the entry with id. Orders keep their own snapshots.
func DeleteItem(catalog []models.MenuItem, id int64) []models.MenuItem {
	next := make([]models.MenuItem, 0, len(catalog))
	for _, item := range catalog {
		if item.ID != id {
			next = append(next, item)
		}
	}
	return next
}

// Save applies edit to the catalog and returns the stored item.
func Save(catalog []models.MenuItem, edit Edit, ids *IDGenerator) ([]models.MenuItem, models.MenuItem) {
	switch e := edit.(type) {
	case NewItemDraft:
		return AddItem(catalog, e, ids)
	case ExistingItem:
		return UpdateItem(catalog, e.Item), e.Item
	default:
		return catalog, models.MenuItem{}
	}
}

func Find(catalog []models.MenuItem, id int64) (models.MenuItem, bool) {
	for _, item := range catalog {
		if item.ID == id {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

// FilterByCategory keeps the items in category; CategoryAll or "" keeps all.
func FilterByCategory(catalog []models.MenuItem, category models.Category) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(catalog))
	for _, item := range catalog {
		if category == models.CategoryAll || category == "" || item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

func MaxID(catalog []models.MenuItem) int64 {
	var max int64
	for _, item := range catalog {
		if item.ID > max {
			max = item.ID
		}
	}
	return max
}
