package menu

import (
	"errors"
	"strings"

	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/hashicorp/go-multierror"
)

var (
	ErrNameRequired    = errors.New("menu item name is required")
	ErrInvalidPrice    = errors.New("menu item price must be greater than zero")
	ErrImageRequired   = errors.New("menu item image url is required")
	ErrInvalidCategory = errors.New("menu item category must be Coffee or Dessert")
)

// ValidateDraft reports every problem with draft at once. The engine
// functions never call it.
func ValidateDraft(draft NewItemDraft) error {
	var result *multierror.Error
	if strings.TrimSpace(draft.Name) == "" {
		result = multierror.Append(result, ErrNameRequired)
	}
	if !draft.Price.IsPositive() {
		result = multierror.Append(result, ErrInvalidPrice)
	}
	if strings.TrimSpace(draft.ImageURL) == "" {
		result = multierror.Append(result, ErrImageRequired)
	}
	if draft.Category != models.CategoryCoffee && draft.Category != models.CategoryDessert {
		result = multierror.Append(result, ErrInvalidCategory)
	}
	return result.ErrorOrNil()
}

func ValidateItem(item models.MenuItem) error {
	return ValidateDraft(NewItemDraft{
		Name:     item.Name,
		Category: item.Category,
		Price:    item.Price,
		ImageURL: item.ImageURL,
	})
}
