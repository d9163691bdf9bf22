package model

import (
	"time"

	"gorm.io/gorm"
)

// Order item and order lifecycle states.
const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
)

// Payment states for Billing.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Order is placed by one staff user (the waiter) and owns its items,
// billing and feedback rows.
type Order struct {
	ID          uint           `json:"order_id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	TableNumber int            `json:"table_number"`
	Status      string         `json:"status" gorm:"type:varchar(20);default:'pending'"`
	TotalAmount float64        `json:"total_amount" gorm:"type:decimal(10,2)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Waiter   *StaffUser  `json:"waiter,omitempty" gorm:"foreignKey:UserID"`
	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Billing  *Billing    `json:"billing,omitempty" gorm:"foreignKey:OrderID"`
	Feedback *Feedback   `json:"feedback,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem belongs to one Order and one Dish.
type OrderItem struct {
	ID             uint    `json:"order_item_id" gorm:"primaryKey"`
	OrderID        uint    `json:"order_id" gorm:"index;not null"`
	DishID         uint    `json:"menu_id" gorm:"index;not null"`
	ItemName       string  `json:"item_name" gorm:"type:varchar(150);not null"`
	Quantity       int     `json:"quantity" gorm:"not null;default:1"`
	TotalPrice     float64 `json:"total_price" gorm:"type:decimal(10,2);not null"`
	SpecialRequest string  `json:"special_request" gorm:"type:text"`
	Status         string  `json:"status" gorm:"type:varchar(20);default:'pending'"`

	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Dish  *Dish  `json:"dish,omitempty" gorm:"foreignKey:DishID"`
}
