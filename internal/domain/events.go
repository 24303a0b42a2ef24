package domain

import "time"

type OrderCreatedEvent struct {
	OrderID   string      `json:"order_id"`
	Email     string      `json:"email"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Timestamp time.Time   `json:"timestamp"`
}

type ReplyCreatedEvent struct {
	ReplyID   string    `json:"reply_id"`
	MessageID string    `json:"message_id"`
	To        string    `json:"to"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
