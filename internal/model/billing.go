package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Billing is one-to-one with Order; the unique index on OrderID
// enforces that at the schema layer.
type Billing struct {
	ID            uint           `json:"billing_id" gorm:"primaryKey"`
	OrderID       uint           `json:"order_id" gorm:"not null;uniqueIndex"`
	InvoiceNumber string         `json:"invoice_number" gorm:"type:varchar(36);not null;uniqueIndex"`
	TotalAmount   float64        `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	PaymentMethod string         `json:"payment_method" gorm:"type:varchar(20);not null"`
	PaymentStatus string         `json:"payment_status" gorm:"type:varchar(20);default:'pending'"`
	Date          time.Time      `json:"date"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}

// BeforeCreate allocates the invoice number.
func (b *Billing) BeforeCreate(tx *gorm.DB) error {
	if b.InvoiceNumber == "" {
		b.InvoiceNumber = uuid.New().String()
	}
	if b.Date.IsZero() {
		b.Date = time.Now()
	}
	return nil
}

// Feedback is one-to-one with Order. Ratings run 1 to 5.
type Feedback struct {
	ID            uint           `json:"feedback_id" gorm:"primaryKey"`
	OrderID       uint           `json:"order_id" gorm:"not null;uniqueIndex"`
	CustomerName  string         `json:"customer_name" gorm:"type:varchar(100)"`
	CustomerEmail string         `json:"customer_email" gorm:"type:varchar(100)"`
	Rating        int            `json:"rating" gorm:"not null"`
	FoodRating    int            `json:"food_rating"`
	ServiceRating int            `json:"service_rating"`
	Comment       string         `json:"comment" gorm:"type:text"`
	IsPublic      bool           `json:"is_public" gorm:"default:true"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}

func (Feedback) TableName() string {
	return "feedback"
}
