package orders

import (
	"fmt"
	"strings"

	"github.com/chrisdamba/cafeorder/internal/models"
)

var forward = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusPending:    models.OrderStatusInProgress,
	models.OrderStatusInProgress: models.OrderStatusReady,
	models.OrderStatusReady:      models.OrderStatusCompleted,
}

// Next returns the single forward target of s, if it has one.
func Next(s models.OrderStatus) (models.OrderStatus, bool) {
	next, ok := forward[s]
	return next, ok
}

// IsTerminal reports whether s is Completed or Cancelled.
func IsTerminal(s models.OrderStatus) bool {
	return s == models.OrderStatusCompleted || s == models.OrderStatusCancelled
}

// IsValid reports whether s is one of the known statuses.
func IsValid(s models.OrderStatus) bool {
	for _, known := range models.AllOrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransition reports whether an order in from may move to to: one step
// forward, or to Cancelled from any non-terminal status.
func CanTransition(from, to models.OrderStatus) bool {
	if !IsValid(from) || IsTerminal(from) {
		return false
	}
	if to == models.OrderStatusCancelled {
		return true
	}
	next, ok := forward[from]
	return ok && next == to
}

// Reachable lists the statuses an order in from may move to.
func Reachable(from models.OrderStatus) []models.OrderStatus {
	var out []models.OrderStatus
	for _, to := range models.AllOrderStatuses {
		if CanTransition(from, to) {
			out = append(out, to)
		}
	}
	return out
}

// ProgressIndex is the position of s among the four forward steps, or -1
// for Cancelled.
func ProgressIndex(s models.OrderStatus) int {
	switch s {
	case models.OrderStatusPending:
		return 0
	case models.OrderStatusInProgress:
		return 1
	case models.OrderStatusReady:
		return 2
	case models.OrderStatusCompleted:
		return 3
	default:
		return -1
	}
}

// ParseStatus accepts the display name in any case, with spaces, dashes or
// underscores ("in progress", "IN_PROGRESS", "in-progress").
func ParseStatus(s string) (models.OrderStatus, error) {
	norm := func(v string) string {
		v = strings.ToLower(strings.TrimSpace(v))
		return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(v)
	}
	want := norm(s)
	for _, status := range models.AllOrderStatuses {
		if norm(string(status)) == want {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}
