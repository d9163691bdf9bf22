package model

import (
	"time"

	"gorm.io/gorm"
)

// StaffUser lives in a tenant database and belongs to one Role. The
// name avoids clashing with the platform operators stored in the
// master database.
type StaffUser struct {
	ID        uint           `json:"user_id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"type:varchar(50);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);not null;uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	RoleID    uint           `json:"role_id" gorm:"index;not null"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Role   *Role   `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:UserID"`
}

func (StaffUser) TableName() string {
	return "users"
}
