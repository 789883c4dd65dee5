package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Order status values. Transitions are strictly forward:
// pending → preparing → out_for_delivery → delivered.
const (
	OrderStatusPending        = "pending"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
)

// Payment status values for an order.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment methods.
const (
	PaymentMethodGateway = "gateway"
	PaymentMethodWallet  = "wallet"
)

// Delivery types.
const (
	DeliveryTypePickup = "pickup"
	DeliveryTypeHostel = "hostel"
)

// OrderItem is one line of an order snapshot. Name and Price are copied
// from the catalog at checkout so later menu edits never rewrite history.
type OrderItem struct {
	FoodItemID uint    `json:"food_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// OrderItems is a JSON-serialised slice stored in a single text column.
type OrderItems []OrderItem

// Value implements driver.Valuer.
func (items OrderItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

// Scan implements sql.Scanner.
func (items *OrderItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	case nil:
		*items = nil
		return nil
	}
	return fmt.Errorf("models: cannot scan %T into OrderItems", value)
}

// Order is a placed order. Subtotal, DeliveryFee, Total and Items are
// immutable after creation; only status, payment and fulfilment fields
// change over the order's life.
type Order struct {
	gorm.Model
	UserID                uint       `gorm:"not null;index" json:"user_id"`
	Items                 OrderItems `gorm:"type:text;not null" json:"items"`
	Subtotal              float64    `gorm:"not null" json:"subtotal"`
	DeliveryFee           float64    `gorm:"not null" json:"delivery_fee"`
	Total                 float64    `gorm:"not null" json:"total"`
	Status                string     `gorm:"size:50;not null;default:pending;index" json:"status"`
	DeliveryType          string     `gorm:"size:50;not null;default:pickup" json:"delivery_type"`
	HostelType            string     `gorm:"size:50" json:"hostel_type"`
	HostelBlock           string     `gorm:"size:50" json:"hostel_block"`
	RoomNumber            string     `gorm:"size:50" json:"room_number"`
	PaymentID             string     `gorm:"size:255;index" json:"payment_id"`
	PaymentStatus         string     `gorm:"size:50;not null;default:pending" json:"payment_status"`
	PaymentMethod         string     `gorm:"size:50;not null;default:gateway" json:"payment_method"`
	VerificationCode      string     `gorm:"size:500" json:"-"` // opaque, shared out-of-band
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`
	DeliveredAt           *time.Time `json:"delivered_at"`
}

// ContainsItem reports whether the order snapshot includes foodItemID.
func (o *Order) ContainsItem(foodItemID uint) bool {
	for _, item := range o.Items {
		if item.FoodItemID == foodItemID {
			return true
		}
	}
	return false
}
