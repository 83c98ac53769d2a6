package orders

import (
	"fmt"
	"sort"

	"github.com/chrisdamba/cafeorder/internal/models"
)

type SortOption string

const (
	SortNewest    SortOption = "Newest First"
	SortOldest    SortOption = "Oldest First"
	SortTotalDesc SortOption = "Total Amount (High-Low)"
)

const (
	DefaultSort    = SortNewest
	// PastOrderLimit caps the past orders shown after sorting.
	PastOrderLimit = 8
)

var SortOptions = []SortOption{SortNewest, SortOldest, SortTotalDesc}

// ParseSortOption accepts either the display label or a short alias
// (newest, oldest, total).
func ParseSortOption(s string) (SortOption, error) {
	switch s {
	case "", "newest", string(SortNewest):
		return SortNewest, nil
	case "oldest", string(SortOldest):
		return SortOldest, nil
	case "total", string(SortTotalDesc):
		return SortTotalDesc, nil
	}
	return "", fmt.Errorf("unknown sort option %q", s)
}

func Active(list []models.Order) []models.Order {
	return filter(list, func(o models.Order) bool { return !IsTerminal(o.Status) })
}

func Past(list []models.Order) []models.Order {
	return filter(list, func(o models.Order) bool { return IsTerminal(o.Status) })
}

// Partition splits list into active and past orders in a single pass.
func Partition(list []models.Order) (active, past []models.Order) {
	active = make([]models.Order, 0, len(list))
	past = make([]models.Order, 0)
	for _, o := range list {
		if IsTerminal(o.Status) {
			past = append(past, o)
		} else {
			active = append(active, o)
		}
	}
	return active, past
}

// Sorted returns a sorted copy of list. Ties keep their relative order.
func Sorted(list []models.Order, opt SortOption) []models.Order {
	out := make([]models.Order, len(list))
	copy(out, list)

	var less func(a, b models.Order) bool
	switch opt {
	case SortOldest:
		less = func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortTotalDesc:
		less = func(a, b models.Order) bool { return a.Total.GreaterThan(b.Total) }
	default:
		less = func(a, b models.Order) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// RecentPast returns the sorted past orders capped to limit. A limit of zero
// or less means no cap.
func RecentPast(list []models.Order, opt SortOption, limit int) []models.Order {
	past := Sorted(Past(list), opt)
	if limit > 0 && len(past) > limit {
		past = past[:limit]
	}
	return past
}

// ByIDs returns the orders whose id is in ids, in list order.
func ByIDs(list []models.Order, ids []string) []models.Order {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return filter(list, func(o models.Order) bool {
		_, ok := want[o.ID]
		return ok
	})
}

func filter(list []models.Order, keep func(models.Order) bool) []models.Order {
	out := make([]models.Order, 0, len(list))
	for _, o := range list {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
