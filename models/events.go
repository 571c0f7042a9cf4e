package models

import "time"

const EventTypeOrderPlaced = "ORDER_PLACED"

type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent is published after an order is persisted and the cart cleared.
type OrderPlacedEvent struct {
	BaseEvent
	OrderID string     `json:"order_id"`
	UserID  string     `json:"user_id"`
	Amount  float64    `json:"amount"`
	Items   []CartItem `json:"items"`
}
