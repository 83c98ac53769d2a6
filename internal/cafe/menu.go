package cafe

import (
	"context"

	"github.com/chrisdamba/cafeorder/internal/menu"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/chrisdamba/cafeorder/internal/orders"
)

func (c *Cafe) Catalog() []models.MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.MenuItem(nil), c.catalog...)
}

func (c *Cafe) FilteredCatalog(category models.Category) []models.MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return menu.FilterByCategory(c.catalog, category)
}

// SaveMenuItem validates and applies a draft or an edit of an existing item.
// Editing an unknown id leaves the catalog alone and returns ErrItemNotFound.
func (c *Cafe) SaveMenuItem(ctx context.Context, edit menu.Edit) (models.MenuItem, error) {
	eventType := models.EventAddMenuItem
	switch e := edit.(type) {
	case menu.NewItemDraft:
		if err := menu.ValidateDraft(e); err != nil {
			return models.MenuItem{}, err
		}
	case menu.ExistingItem:
		if err := menu.ValidateItem(e.Item); err != nil {
			return models.MenuItem{}, err
		}
		eventType = models.EventUpdateMenuItem
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := edit.(menu.ExistingItem); ok {
		if _, found := menu.Find(c.catalog, e.Item.ID); !found {
			return models.MenuItem{}, ErrItemNotFound
		}
	}

	var item models.MenuItem
	c.catalog, item = menu.Save(c.catalog, edit, c.menuIDs)
	c.persist(ctx, models.KeyMenu, c.catalog)
	c.publisher.MenuChanged(eventType, item, c.now())
	c.logger.Info().Int64("item_id", item.ID).Str("name", item.Name).Str("event", eventType).Msg("menu updated")
	return item, nil
}

// DeleteMenuItem removes an item from the catalog. Placed orders keep their
// own copies, so deletion is allowed even while the item is being prepared.
func (c *Cafe) DeleteMenuItem(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, found := menu.Find(c.catalog, id)
	if !found {
		return ErrItemNotFound
	}

	if n := c.activeOrdersWith(id); n > 0 {
		c.logger.Warn().Int64("item_id", id).Int("active_orders", n).Msg("deleting menu item referenced by active orders")
	}
	c.catalog = menu.DeleteItem(c.catalog, id)
	c.persist(ctx, models.KeyMenu, c.catalog)
	c.publisher.MenuChanged(models.EventDeleteMenuItem, item, c.now())
	c.logger.Info().Int64("item_id", id).Str("name", item.Name).Msg("menu item deleted")
	return nil
}

func (c *Cafe) activeOrdersWith(itemID int64) int {
	n := 0
	for _, o := range orders.Active(c.orders) {
		for _, line := range o.Items {
			if line.ID == itemID {
				n++
				break
			}
		}
	}
	return n
}
