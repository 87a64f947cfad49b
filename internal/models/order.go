package models

import "github.com/google/uuid"

// Order statuses. Accepted, declined and canceled are terminal.
const (
	OrderStatusPending  = "pending"
	OrderStatusAccepted = "accepted"
	OrderStatusDeclined = "declined"
	OrderStatusCanceled = "canceled"
)

// Order belongs to one user and exclusively owns its items. GrandTotal is
// server-computed at creation time and never re-priced afterwards.
type Order struct {
	BaseModel
	UserID     uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User       *User       `json:"user,omitempty"`
	Payment    string      `json:"payment"`
	GrandTotal float64     `json:"grand_total"`
	Status     string      `gorm:"default:pending" json:"status"`
	Message    string      `json:"message"`
	Items      []OrderItem `json:"items,omitempty"`
}

// OrderItem is immutable after creation; TotalPrice is unit price times
// quantity, taken from the catalog at order time.
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product    *Product  `json:"product,omitempty"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"total_price"`
}
