package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusCompleted,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// NextStatus returns the successor on the happy path. Terminal and
// unrecognized statuses map to themselves.
func NextStatus(s OrderStatus) OrderStatus {
	switch s {
	case OrderStatusPending:
		return OrderStatusPreparing
	case OrderStatusPreparing:
		return OrderStatusCompleted
	case OrderStatusCompleted:
		return OrderStatusDelivered
	default:
		return s
	}
}

func IsTerminal(s OrderStatus) bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
// Legal moves are the single happy-path successor, cancellation while still
// pending, and the idempotent no-op.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	if IsTerminal(from) {
		return false
	}
	if to == OrderStatusCancelled {
		return from == OrderStatusPending
	}
	return NextStatus(from) == to
}

type OrderItem struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type Order struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	TableNum  *int        `json:"table_num"`
	Status    OrderStatus `json:"status"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Total is the live order total: item prices are read from the menu at
// aggregation time, not frozen at order time.
func (o Order) Total() float64 {
	var sum float64
	for _, item := range o.Items {
		sum += float64(item.Quantity) * item.Price
	}
	return sum
}
