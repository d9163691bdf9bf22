package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant is the master-database directory record for one restaurant.
// DBName is computed once from the subdomain at signup and never
// mutated afterwards. Records are soft-deleted only, so billing and
// audit references stay valid.
type Tenant struct {
	ID             uint              `json:"tenant_id" gorm:"primaryKey"`
	RestaurantName string            `json:"restaurant_name" gorm:"type:varchar(100);not null"`
	Subdomain      string            `json:"subdomain" gorm:"type:varchar(63);not null;uniqueIndex"`
	Email          string            `json:"email" gorm:"type:varchar(100);not null;uniqueIndex"`
	Password       string            `json:"-" gorm:"type:varchar(255)"`
	PlanID         uint              `json:"plan_id" gorm:"index;not null"`
	Plan           *SubscriptionPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
	EndDate        *time.Time        `json:"end_date,omitempty"`
	IsPaymentDone  bool              `json:"is_payment_done" gorm:"default:true"`
	DBName         string            `json:"db_name" gorm:"type:varchar(120);not null;uniqueIndex"`
	Notified       bool              `json:"notified" gorm:"default:false"`
	IsFirstLogin   bool              `json:"is_first_login" gorm:"default:true"`
	IsActive       bool              `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `json:"-" gorm:"index"`
}
