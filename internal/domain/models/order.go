package models

import "time"

// Order represents a purchase placed by a user.
// Status is false until the order is fulfilled.
type Order struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
