package models

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusInProgress OrderStatus = "In Progress"
	OrderStatusReady      OrderStatus = "Ready"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// AllOrderStatuses lists every status in pipeline order, with Cancelled last.
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

type Category string

const (
	CategoryCoffee  Category = "Coffee"
	CategoryDessert Category = "Dessert"

	// CategoryAll is a filter value only, never stored on an item.
	CategoryAll Category = "All"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Store keys for the persisted state slices.
const (
	KeyRole      = "cafe-role"
	KeyMenu      = "cafe-menu"
	KeyOrders    = "cafe-orders"
	KeyMyOrders  = "cafe-my-orders"
	KeyLastOrder = "cafe-last-order"
)

const (
	TopicOrderPlaced = "order_placed_events"
	TopicOrderStatus = "order_status_events"
	TopicMenu        = "menu_events"

	EventPlaceOrder     = "PlaceOrder"
	EventUpdateStatus   = "UpdateOrderStatus"
	EventAddMenuItem    = "AddMenuItem"
	EventUpdateMenuItem = "UpdateMenuItem"
	EventDeleteMenuItem = "DeleteMenuItem"
)
