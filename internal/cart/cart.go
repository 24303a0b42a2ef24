// Package cart holds the in-memory order-in-progress for one browsing
// session. A Cart is created when the session starts and passed explicitly to
// whatever renders it; there is no shared or persisted cart state.
package cart

import "github.com/el-asil/restaurant-api/internal/domain"

type Line struct {
	ID         string
	Name       string
	ArabicName string
	Price      float64
	Category   domain.Category
	Specials   []domain.SpecialType
	Quantity   int
}

// Cart is a plain synchronous reducer: every operation is an in-memory
// mutation, single consumer, no locking.
type Cart struct {
	lines []Line
	open  bool
}

func New() *Cart {
	return &Cart{}
}

// AddItem inserts a new line at quantity 1, or bumps the existing line.
func (c *Cart) AddItem(item Line) {
	for i := range c.lines {
		if c.lines[i].ID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	item.Quantity = 1
	c.lines = append(c.lines, item)
}

// UpdateQuantity sets a line's quantity, removing the line when n drops to
// zero or below.
func (c *Cart) UpdateQuantity(id string, n int) {
	if n <= 0 {
		c.RemoveItem(id)
		return
	}
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Quantity = n
			return
		}
	}
}

func (c *Cart) RemoveItem(id string) {
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Open()  { c.open = true }
func (c *Cart) Close() { c.open = false }

func (c *Cart) Toggle() {
	c.open = !c.open
}

func (c *Cart) IsOpen() bool {
	return c.open
}

// Lines returns a copy of the cart's line items.
func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) TotalItems() int {
	var total int
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// Checkout converts the cart into the order items the API expects.
func (c *Cart) Checkout() []domain.OrderItemInput {
	items := make([]domain.OrderItemInput, 0, len(c.lines))
	for _, line := range c.lines {
		items = append(items, domain.OrderItemInput{
			MenuItemID: line.ID,
			Quantity:   line.Quantity,
		})
	}
	return items
}
