package models

// DeliveryStatus is the shipment state of a delivery.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryDelivered DeliveryStatus = "delivered"
)

// Valid reports whether the value is one of the known states.
func (s DeliveryStatus) Valid() bool {
	return s == DeliveryPending || s == DeliveryDelivered
}

// Delivery represents a shipment attached to an order.
type Delivery struct {
	ID      int64          `json:"id"`
	UserID  int64          `json:"user_id"`
	OrderID int64          `json:"order_id"`
	Status  DeliveryStatus `json:"status"`
}
