package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription plan names form a small fixed set.
const (
	PlanBasic    = "Basic"
	PlanStandard = "Standard"
	PlanPremium  = "Premium"
)

// SubscriptionPlan lives in the master database. A plan cannot be
// deleted while any Tenant references it; the handler rejects the
// delete instead of cascading.
type SubscriptionPlan struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(50);not null;uniqueIndex"`
	Price       float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Description string         `json:"description" gorm:"type:varchar(255)"`
	MaxUsers    int            `json:"max_users" gorm:"not null"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// ValidPlanName reports whether name is one of the fixed plan names.
func ValidPlanName(name string) bool {
	switch name {
	case PlanBasic, PlanStandard, PlanPremium:
		return true
	}
	return false
}
