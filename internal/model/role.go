package model

import (
	"time"

	"gorm.io/gorm"
)

// DefaultAdminRole is seeded into every new tenant database so the
// signup administrator has a role to attach to.
const DefaultAdminRole = "Admin"

// Role lives in a tenant database.
type Role struct {
	ID          uint           `json:"role_id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Users       []StaffUser  `json:"users,omitempty" gorm:"foreignKey:RoleID"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"foreignKey:RoleID"`
}

// Module is a feature unit that permissions are scoped to.
type Module struct {
	ID          uint           `json:"module_id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug        string         `json:"slug" gorm:"type:varchar(100);not null"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Permissions []Permission `json:"permissions,omitempty" gorm:"foreignKey:ModuleID"`
}

// Permission is one row of the role x module capability grid. The
// (role_id, module_id) pair is unique.
type Permission struct {
	ID        uint           `json:"permission_id" gorm:"primaryKey"`
	RoleID    uint           `json:"role_id" gorm:"not null;uniqueIndex:idx_permissions_role_module"`
	ModuleID  uint           `json:"module_id" gorm:"not null;uniqueIndex:idx_permissions_role_module"`
	CanCreate bool           `json:"can_create" gorm:"not null"`
	CanView   bool           `json:"can_view" gorm:"not null"`
	CanEdit   bool           `json:"can_edit" gorm:"not null"`
	CanDelete bool           `json:"can_delete" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Role   *Role   `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	Module *Module `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
}
