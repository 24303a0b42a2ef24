package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError is a rejected request field with a human-readable reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Algerian mobile numbers: +213 or a leading 0, then 5/6/7 and 8 digits.
var phonePattern = regexp.MustCompile(`^(\+213|0)[567][0-9]{8}$`)

type OrderItemInput struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// OrderPayload is the checkout request as decoded at the API boundary.
type OrderPayload struct {
	Email    string           `json:"email"`
	Phone    string           `json:"phone"`
	TableNum *int             `json:"table_num"`
	Status   OrderStatus      `json:"status"`
	Items    []OrderItemInput `json:"items"`
}

// ValidateOrderPayload checks the checkout payload rule by rule; the first
// failing rule short-circuits.
func ValidateOrderPayload(p OrderPayload) error {
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return invalid("A valid email is required")
	}
	if !phonePattern.MatchString(p.Phone) {
		return invalid("A valid Algerian phone number is required")
	}
	if !ValidOrderStatus(p.Status) {
		return invalid("Status must be one of %s, %s, %s, %s, %s",
			OrderStatusPending, OrderStatusPreparing, OrderStatusCompleted,
			OrderStatusDelivered, OrderStatusCancelled)
	}
	if len(p.Items) == 0 {
		return invalid("Items must be a non-empty array")
	}
	for _, item := range p.Items {
		if item.MenuItemID == "" {
			return invalid("Every item needs a menu_item_id")
		}
		if item.Quantity < 1 {
			return invalid("Item quantity must be at least 1")
		}
	}
	return nil
}
